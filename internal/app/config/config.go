package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`

	// Event pipeline.
	EventWorkers     int           `envconfig:"EVENT_WORKERS" default:"4"`
	EventTaskTimeout time.Duration `envconfig:"EVENT_TASK_TIMEOUT" default:"30s"`

	// Whether creating an invoice also persists an in-app notification in
	// addition to the customer email.
	NotifyOnInvoiceCreated bool `envconfig:"NOTIFY_ON_INVOICE_CREATED" default:"true"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     string `envconfig:"SMTP_PORT" default:"465"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPass     string `envconfig:"SMTP_PASS"`
	SMTPFromName string `envconfig:"SMTP_FROM_NAME" default:"Online Billing System"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
