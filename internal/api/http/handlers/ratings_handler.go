package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/api/dto"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/service"
)

// RatingsHandler exposes requester ratings.
type RatingsHandler struct {
	service *service.RatingService
}

// NewRatingsHandler constructs handler.
func NewRatingsHandler(ratingService *service.RatingService) *RatingsHandler {
	return &RatingsHandler{service: ratingService}
}

// Create POST /api/tickets/:id/rating.
func (h *RatingsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRatingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	rating, err := h.service.Create(c.UserContext(), c.Params("id"), service.RatingInput(req))
	if err != nil {
		return err
	}
	return created(c, dto.NewRatingResponse(rating))
}

// GetByTicket GET /api/tickets/:id/rating. Data is null when not rated.
func (h *RatingsHandler) GetByTicket(c *fiber.Ctx) error {
	rating, err := h.service.GetByTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if rating == nil {
		return data(c, nil)
	}
	return data(c, dto.NewRatingResponse(rating))
}

// List GET /api/ratings.
func (h *RatingsHandler) List(c *fiber.Ctx) error {
	ratings, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, dto.NewRatingResponses(ratings))
}

// Stats GET /api/ratings/stats.
func (h *RatingsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, dto.NewRatingStatsResponse(stats))
}
