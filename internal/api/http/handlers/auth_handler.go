package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/api/dto"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/auth"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/service"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

// AuthHandler handles staff sign in.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.service.Login(c.UserContext(), service.LoginInput(req))
	if err != nil {
		return err
	}
	return data(c, dto.LoginResponse{
		AccessToken: session.Token,
		TokenType:   "Bearer",
		ExpiresAt:   session.ExpiresAt,
		Staff:       dto.NewStaffResponse(session.Staff),
	})
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff authentication required")
	}
	return data(c, dto.NewStaffResponse(principal.Staff))
}
