package domain

import "time"

// Well-known setting keys.
const (
	SettingNotificationEmail = "notification_email"
	SettingSMTPHost          = "smtp_host"
	SettingSMTPPort          = "smtp_port"
	SettingSMTPUser          = "smtp_user"
	SettingSMTPPass          = "smtp_pass"
)

// Setting is a persisted key/value configuration override.
type Setting struct {
	ID          string
	Key         string
	Value       string
	Description *string
	UpdatedAt   time.Time
}
