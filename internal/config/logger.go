package config

type Logger struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	URL     string `env:"LOKI_URL"`
	AppName string `env:"APP_NAME" envDefault:"kupolls"`
}
