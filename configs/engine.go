package configs

type Engine struct {
	MaxWriteAttempts int `env:"ENGINE_MAX_WRITE_ATTEMPTS" envDefault:"3"`
}
