package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// Config is read from the environment (and .env, if present).
type Config struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	ContentDir   string        `env:"CONTENT_DIR" envDefault:"data"`
	ContentWatch bool          `env:"CONTENT_WATCH" envDefault:"false"`
	DBPath       string        `env:"DB_PATH" envDefault:"portfolio.db"`
	SessionKey   string        `env:"SESSION_KEY"`
	GalleryTTL   time.Duration `env:"GALLERY_TTL" envDefault:"30m"`
	GalleryMax   int           `env:"GALLERY_MAX" envDefault:"10000"`

	SMTP SMTPConfig

	AdminUsername     string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword     string `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	VisitorRetention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`
}

// SMTPConfig configures the contact form mailer.
type SMTPConfig struct {
	Host    string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port    string `env:"SMTP_PORT" envDefault:"587"`
	User    string `env:"SMTP_USER"`
	Pass    string `env:"SMTP_PASS"`
	ToEmail string `env:"TO_EMAIL"`
}

// Configured reports whether credentials are present.
func (c SMTPConfig) Configured() bool {
	return c.User != "" && c.Pass != ""
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
