package dto

import (
	"time"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
)

const maskedValue = "********"

// SetSettingRequest payload.
type SetSettingRequest struct {
	Value       string  `json:"value"`
	Description *string `json:"description"`
}

// TestEmailRequest payload.
type TestEmailRequest struct {
	To string `json:"to"`
}

// SettingResponse view. The SMTP password is never echoed back.
type SettingResponse struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description *string   `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSettingResponse maps a setting.
func NewSettingResponse(s *domain.Setting) SettingResponse {
	value := s.Value
	if s.Key == domain.SettingSMTPPass && value != "" {
		value = maskedValue
	}
	return SettingResponse{
		ID:          s.ID,
		Key:         s.Key,
		Value:       value,
		Description: s.Description,
		UpdatedAt:   s.UpdatedAt,
	}
}

// NewSettingResponses maps a list.
func NewSettingResponses(settings []domain.Setting) []SettingResponse {
	items := make([]SettingResponse, 0, len(settings))
	for i := range settings {
		items = append(items, NewSettingResponse(&settings[i]))
	}
	return items
}
