// Package config handles configuration for the auth server, layering
// defaults, an optional JSON file, environment variables, and command-line
// flags (later layers win).
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the auth server.
//
// SecretKey, DatabaseDSN, and the SMTP credentials have no compiled-in
// defaults: secrets must arrive from the environment, a config file, or
// flags. Validate rejects a config with an empty secret or DSN.
type Config struct {
	EndpointAddrHTTP      string        `env:"AUTHD_ADDR"`
	DatabaseDSN           string        `env:"AUTHD_DATABASE_DSN"`
	SecretKey             string        `env:"AUTHD_SECRET_KEY"`
	TokenValidityDuration time.Duration `env:"AUTHD_TOKEN_VALIDITY"`
	StoreTimeout          time.Duration `env:"AUTHD_STORE_TIMEOUT"`
	MailTimeout           time.Duration `env:"AUTHD_MAIL_TIMEOUT"`
	SMTPHost              string        `env:"AUTHD_SMTP_HOST"`
	SMTPPort              int           `env:"AUTHD_SMTP_PORT"`
	SMTPUsername          string        `env:"AUTHD_SMTP_USERNAME"`
	SMTPPassword          string        `env:"AUTHD_SMTP_PASSWORD"`
	SMTPFrom              string        `env:"AUTHD_SMTP_FROM"`
}

// LoadDefaults populates the non-secret fields with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.TokenValidityDuration = 24 * time.Hour
	c.StoreTimeout = 5 * time.Second
	c.MailTimeout = 10 * time.Second
	c.SMTPPort = 587
}

// Validate reports whether the config is complete enough to start serving.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is not configured")
	}
	if c.SecretKey == "" {
		return errors.New("secret key is not configured")
	}
	return nil
}

// SMTPConfigured reports whether enough SMTP settings are present to build
// a real mail transport. Without them the server falls back to a logging
// sender.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
