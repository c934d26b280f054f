package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/api/dto"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/service"
)

// SettingsHandler manages persisted configuration overrides.
type SettingsHandler struct {
	settings      *service.SettingsService
	notifications *service.NotificationService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings *service.SettingsService, notifications *service.NotificationService) *SettingsHandler {
	return &SettingsHandler{settings: settings, notifications: notifications}
}

// List GET /api/settings.
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	settings, err := h.settings.List(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, dto.NewSettingResponses(settings))
}

// Get GET /api/settings/:key.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	setting, err := h.settings.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	return data(c, dto.NewSettingResponse(setting))
}

// Set PUT /api/settings/:key.
func (h *SettingsHandler) Set(c *fiber.Ctx) error {
	var req dto.SetSettingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	setting, err := h.settings.Set(c.UserContext(), service.SettingInput{
		Key:         c.Params("key"),
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return data(c, dto.NewSettingResponse(setting))
}

// TestEmail POST /api/settings/test-email.
func (h *SettingsHandler) TestEmail(c *fiber.Ctx) error {
	var req dto.TestEmailRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	to, err := h.notifications.SendTestEmail(c.UserContext(), service.TestEmailInput{To: req.To})
	if err != nil {
		return err
	}
	return data(c, fiber.Map{"sent": true, "to": to})
}
