package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string   `env:"APP_ENV" envDefault:"development"`
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	DBHost    string `env:"DB_HOST" envDefault:"localhost"`
	DBPort    string `env:"DB_PORT" envDefault:"5432"`
	DBUser    string `env:"DB_USER" envDefault:"postgres"`
	DBPass    string `env:"DB_PASS"`
	DBName    string `env:"DB_NAME" envDefault:"discussify"`
	DBSSLMode string `env:"DB_SSLMODE" envDefault:"disable"`

	RedisURL string `env:"REDIS_URL"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-me"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	MeiliSearchHost string `env:"MEILISEARCH_HOST"`
	MeiliMasterKey  string `env:"MEILI_MASTER_KEY"`

	CloudinaryURL          string `env:"CLOUDINARY_URL"`
	CloudinaryUploadFolder string `env:"CLOUDINARY_UPLOAD_FOLDER" envDefault:"discussify"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"discussify.membership"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	// Base URL used to build links in outgoing emails.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	RateLimitCommunity  time.Duration `env:"RATE_LIMIT_COMMUNITY" envDefault:"1m"`
	RateLimitDiscussion time.Duration `env:"RATE_LIMIT_DISCUSSION" envDefault:"30s"`

	SearchReindexSchedule string        `env:"SEARCH_REINDEX_SCHEDULE" envDefault:"@daily"`
	SideEffectTimeout     time.Duration `env:"SIDE_EFFECT_TIMEOUT" envDefault:"10s"`

	// Development only.
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@discussify.local"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"admin12345"`
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if !cfg.IsDevelopment() && cfg.JWTSecret == "change-me" {
		return nil, fmt.Errorf("JWT_SECRET must be set outside development")
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort, c.DBSSLMode)
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}
