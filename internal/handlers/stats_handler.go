package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cosmiclattes/manos-library/internal/httpapi"
	"github.com/cosmiclattes/manos-library/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

func (h *StatsHandler) LibrarianStats(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	stats, err := h.statsService.LibrarianStats(caller)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Librarian stats", stats)
}
