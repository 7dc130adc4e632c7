package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"group_decisions/configs"
	"group_decisions/internal/db"
	"group_decisions/internal/db/repositories"
	"group_decisions/internal/di"
	"group_decisions/internal/notifications"
	"group_decisions/internal/services"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadProposalStateServiceConfig()
	logger := di.NewLogger(config.App, config.Logger)

	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	logger.Info("config loaded")

	logger.Info("starting db")
	database, err := db.StartDB(config.DB, logger)
	if err != nil {
		logger.Fatalw("failed to start db", "error", err)
	}
	defer database.Close()
	logger.Info("db started")

	logger.Info("initializing repositories and services")
	proposalRepository := repositories.NewProposalRepository(database)
	lifecycleService := services.NewLifecycleService(
		proposalRepository,
		logger,
		services.WithMaxWriteAttempts(config.Engine.MaxWriteAttempts),
	)

	notifier, err := notifications.NewTelegramNotifier(config.Notifications, logger)
	if err != nil {
		logger.Fatalw("failed to create notifier", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	_, err = s.Cron(config.Scheduler.Cron).Do(func() {
		runExpirySweep(ctx, lifecycleService, notifier, time.Now().UTC(), logger)
	})
	if err != nil {
		logger.Fatalw("failed to schedule expiry sweep", "error", err, "cron", config.Scheduler.Cron)
	}

	server := newHealthCheckServer(config.Scheduler.HealthCheckAddr)
	go func() {
		logger.Infow("setting up health check server", "addr", server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("failed to start http server", "error", err)
		}
	}()

	logger.Infow("scheduler started", "cron", config.Scheduler.Cron)
	s.StartAsync()

	<-ctx.Done()
	logger.Info("shutting down")
	s.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("failed to shutdown http server", "error", err)
	}
}

// runExpirySweep resolves every proposal whose voting window is over and
// announces the ones that changed stage.
func runExpirySweep(
	ctx context.Context,
	lifecycleService services.LifecycleService,
	notifier notifications.Notifier,
	now time.Time,
	logger *zap.SugaredLogger,
) []services.Outcome {
	logger.Infow("evaluating expired proposals", "now", now)

	outcomes, err := lifecycleService.EvaluateExpired(ctx, now)
	if err != nil {
		logger.Errorw("expiry sweep finished with errors", "error", err)
	}

	if len(outcomes) == 0 {
		logger.Info("no proposals to update")
		return nil
	}

	notifier.NotifyStageChanged(outcomes)
	logger.Infow("proposals updated", "count", len(outcomes))

	return outcomes
}

func newHealthCheckServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/proposal-state-service/healthcheck", healthCheckHandler)

	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("I'm alive"))
}
