package configs

type Logger struct {
	AppName string `env:"LOGGER_APP_NAME" envDefault:"proposal_state_service"`
	Level   string `env:"LOGGER_LEVEL" envDefault:"info"`
	URL     string `env:"LOKI_URL"`
}
