package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration, loaded from environment
// variables with sensible defaults for local development.
type Config struct {
	ListenAddr   string `env:"LISTEN_ADDR" envDefault:":8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/rsvp.db"`

	// Default event details; editable afterwards in the admin panel.
	EventName     string `env:"EVENT_NAME" envDefault:"Launch Event"`
	EventDate     string `env:"EVENT_DATE" envDefault:"TBD"`
	EventLocation string `env:"EVENT_LOCATION" envDefault:"Venue TBD"`
	EventAddress  string `env:"EVENT_ADDRESS" envDefault:""`
	ContactPhone  string `env:"CONTACT_PHONE" envDefault:""`
	ContactEmail  string `env:"CONTACT_EMAIL" envDefault:""`

	// bcrypt hashes of the admin and door-staff passwords. Generate with
	// the hash-password helper. Empty hash disables that login.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH" envDefault:""`
	DoorPasswordHash  string `env:"DOOR_PASSWORD_HASH" envDefault:""`

	SMTP SMTPConfig `envPrefix:"SMTP_"`
}

// SMTPConfig configures the approval-email transport. An empty Host
// disables outgoing mail; approvals then log instead of sending.
type SMTPConfig struct {
	Host     string `env:"HOST" envDefault:""`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME" envDefault:""`
	Password string `env:"PASSWORD" envDefault:""`
	From     string `env:"FROM" envDefault:"noreply@localhost"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
