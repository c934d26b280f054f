package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/api/dto"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/service"
)

// TechniciansHandler manages technicians.
type TechniciansHandler struct {
	service *service.TechnicianService
}

// NewTechniciansHandler constructs handler.
func NewTechniciansHandler(technicianService *service.TechnicianService) *TechniciansHandler {
	return &TechniciansHandler{service: technicianService}
}

// List GET /api/technicians.
func (h *TechniciansHandler) List(c *fiber.Ctx) error {
	technicians, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, dto.NewTechnicianResponses(technicians))
}

// Create POST /api/technicians.
func (h *TechniciansHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTechnicianRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	technician, err := h.service.Create(c.UserContext(), service.TechnicianInput(req))
	if err != nil {
		return err
	}
	return created(c, dto.NewTechnicianResponse(technician))
}

// Update PATCH /api/technicians/:id.
func (h *TechniciansHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTechnicianRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	technician, err := h.service.Update(c.UserContext(), c.Params("id"), service.TechnicianUpdateInput(req))
	if err != nil {
		return err
	}
	return data(c, dto.NewTechnicianResponse(technician))
}

// Deactivate DELETE /api/technicians/:id.
func (h *TechniciansHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.service.Deactivate(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
