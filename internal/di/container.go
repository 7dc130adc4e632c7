package di

import (
	"context"
	"time"

	"group_decisions/configs"

	zaploki "github.com/paul-milne/zap-loki"
	"go.uber.org/zap"
)

// NewLogger builds the service logger. Records go to Loki when LOKI_URL is set
// and to stderr otherwise; the dev environment gets human-readable output.
func NewLogger(app configs.App, config configs.Logger) *zap.SugaredLogger {
	zapConfig, levelErr := loggerConfig(app, config)

	var logger *zap.Logger
	if config.URL == "" {
		logger = zap.Must(zapConfig.Build())
	} else {
		lokiConfig := zaploki.Config{
			Url:          config.URL,
			BatchMaxSize: 1000,
			BatchMaxWait: 10 * time.Second,
			Labels:       map[string]string{"app": config.AppName, "environment": app.Environment},
		}
		logger = zap.Must(zaploki.New(context.Background(), lokiConfig).WithCreateLogger(zapConfig))
	}

	sugar := logger.Sugar().With("app", config.AppName)
	if levelErr != nil {
		sugar.Warnw("unknown log level, using info", "level", config.Level, "error", levelErr)
	}
	return sugar
}

func loggerConfig(app configs.App, config configs.Logger) (zap.Config, error) {
	zapConfig := zap.NewProductionConfig()
	if app.IsDevEnvironment() {
		zapConfig = zap.NewDevelopmentConfig()
	}

	if config.Level == "" {
		return zapConfig, nil
	}
	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		return zapConfig, err
	}
	zapConfig.Level = level
	return zapConfig, nil
}
