package configs

type Scheduler struct {
	Cron            string `env:"SCHEDULER_CRON" envDefault:"*/5 * * * *"`
	HealthCheckAddr string `env:"HEALTHCHECK_ADDR" envDefault:":8080"`
}
