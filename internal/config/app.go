package config

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type App struct {
	Environment        string   `env:"ENVIRONMENT" envDefault:"dev"`
	HTTPAddr           string   `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	Storage            string   `env:"STORAGE" envDefault:"postgres"`
}

func (c App) IsDevEnvironment() bool {
	return c.Environment == "dev"
}
