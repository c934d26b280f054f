// Package mail renders and delivers notification emails over SMTP.
package mail

import (
	"context"
	"errors"
	"time"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
)

// ErrNotConfigured is returned when no complete SMTP configuration is available.
var ErrNotConfigured = errors.New("smtp credentials incomplete")

// Message is a single rendered email for one recipient.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig is the effective transport configuration for one delivery.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	Timeout     time.Duration
}

// Complete reports whether host and credentials are all present.
func (c SMTPConfig) Complete() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// FromConfig converts the static environment configuration.
func FromConfig(cfg config.SMTPConfig) SMTPConfig {
	return SMTPConfig{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.Username,
		Password:    cfg.Password,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
		Timeout:     cfg.Timeout(),
	}
}

// ConfigResolver yields the SMTP configuration to use for the next delivery.
type ConfigResolver func(ctx context.Context) (SMTPConfig, error)

// StaticConfig always resolves to cfg.
func StaticConfig(cfg SMTPConfig) ConfigResolver {
	return func(context.Context) (SMTPConfig, error) {
		return cfg, nil
	}
}
