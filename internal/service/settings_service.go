package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/mail"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository"
)

// SettingsService exposes persisted overrides layered on top of the environment.
type SettingsService struct {
	settings     repository.SettingRepository
	smtp         config.SMTPConfig
	notification config.NotificationConfig
	logger       *zap.Logger
}

// SettingInput upserts a setting value.
type SettingInput struct {
	Key         string  `json:"key" validate:"required,max=100"`
	Value       string  `json:"value" validate:"max=2000"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// NewSettingsService builds the service.
func NewSettingsService(settings repository.SettingRepository, cfg config.Config, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		settings:     settings,
		smtp:         cfg.SMTP,
		notification: cfg.Notification,
		logger:       logger,
	}
}

// Get loads one setting.
func (s *SettingsService) Get(ctx context.Context, key string) (*domain.Setting, error) {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return nil, notFoundOr(err, "setting", key)
	}
	return setting, nil
}

// Set creates or replaces a setting.
func (s *SettingsService) Set(ctx context.Context, input SettingInput) (*domain.Setting, error) {
	input.Key = strings.TrimSpace(input.Key)
	input.Value = strings.TrimSpace(input.Value)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	setting := &domain.Setting{Key: input.Key, Value: input.Value, Description: input.Description}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

// List returns all settings ordered by key.
func (s *SettingsService) List(ctx context.Context) ([]domain.Setting, error) {
	return s.settings.List(ctx)
}

// NotificationEmail is the staff inbox for new tickets: the persisted
// setting when present, else NOTIFICATION_EMAIL. Empty means disabled.
func (s *SettingsService) NotificationEmail(ctx context.Context) string {
	if value := s.lookup(ctx, domain.SettingNotificationEmail); value != "" {
		return value
	}
	return strings.TrimSpace(s.notification.Email)
}

// ResolveSMTP returns the transport configuration for the next delivery.
// Persisted settings win only when host, user and password are all set.
func (s *SettingsService) ResolveSMTP(ctx context.Context) (mail.SMTPConfig, error) {
	cfg := mail.FromConfig(s.smtp)

	host := s.lookup(ctx, domain.SettingSMTPHost)
	user := s.lookup(ctx, domain.SettingSMTPUser)
	pass := s.lookup(ctx, domain.SettingSMTPPass)
	if host == "" || user == "" || pass == "" {
		return cfg, nil
	}

	cfg.Host = host
	cfg.Username = user
	cfg.Password = pass
	if raw := s.lookup(ctx, domain.SettingSMTPPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 {
			s.logger.Warn("ignoring invalid smtp_port setting", zap.String("value", raw))
		} else {
			cfg.Port = port
		}
	}
	return cfg, nil
}

func (s *SettingsService) lookup(ctx context.Context, key string) string {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("failed to read setting", zap.String("key", key), zap.Error(err))
		}
		return ""
	}
	return strings.TrimSpace(setting.Value)
}
