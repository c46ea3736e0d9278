// Package config provides runtime configuration for the service.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every knob the service reads from the environment.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://db/migrations"`

	StripeAPIKey string `env:"STRIPE_API_KEY"`

	// BaseURL is the public origin the payment vendor redirects back to.
	BaseURL         string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DownloadBaseURL string `env:"DOWNLOAD_BASE_URL" envDefault:"http://localhost:8080/downloads"`
	DefaultCurrency string `env:"DEFAULT_CURRENCY" envDefault:"eur"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"no-reply@localhost"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"funnel_events"`

	RedisAddr string        `env:"REDIS_ADDR"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	JWTSecret         string `env:"JWT_SECRET"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

// Load reads .env when present and parses the environment into a Config.
func Load() (Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
