package configs

type Notifications struct {
	Token  string `env:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `env:"TELEGRAM_CHAT_ID"`
}

func (c Notifications) Enabled() bool {
	return c.Token != ""
}
