package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/auth"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}
	return nil
}

// actorName is the performer recorded for staff actions.
func actorName(c *fiber.Ctx) string {
	principal, _ := auth.PrincipalFromContext(c)
	return principal.DisplayName()
}

func data(c *fiber.Ctx, payload any) error {
	return c.JSON(fiber.Map{"data": payload})
}

func created(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": payload})
}
