package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/httpapi"
	"github.com/cosmiclattes/manos-library/internal/service"
)

type CirculationHandler struct {
	circulationService *service.CirculationService
}

func NewCirculationHandler(circulationService *service.CirculationService) *CirculationHandler {
	return &CirculationHandler{
		circulationService: circulationService,
	}
}

func (h *CirculationHandler) HealthCheck(c *fiber.Ctx) error {
	return httpapi.SuccessResponse(c, "Circulation service is healthy", map[string]interface{}{
		"service": "circulation-service",
		"status":  "healthy",
	})
}

type borrowRequest struct {
	BookID uuid.UUID `json:"book_id"`
}

func (h *CirculationHandler) Borrow(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	var req borrowRequest
	if err := c.BodyParser(&req); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{"error": err.Error()})
	}
	if req.BookID == uuid.Nil {
		return httpapi.BadRequestResponse(c, "book_id is required", nil)
	}

	record, err := h.circulationService.Borrow(caller, req.BookID)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.CreatedResponse(c, "Book borrowed", record)
}

func (h *CirculationHandler) Return(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	bookID, err := uuid.Parse(c.Params("book_id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid book id", nil)
	}

	record, err := h.circulationService.Return(caller, bookID)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Book returned", record)
}

func (h *CirculationHandler) MyBooks(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	records, err := h.circulationService.ListMyBorrows(caller)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Active borrows", records)
}

func (h *CirculationHandler) History(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	records, err := h.circulationService.BorrowHistory(caller)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Borrow history", records)
}

func (h *CirculationHandler) Availability(c *fiber.Ctx) error {
	bookID, err := uuid.Parse(c.Params("book_id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid book id", nil)
	}

	available, err := h.circulationService.GetAvailability(bookID)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Availability", map[string]interface{}{
		"book_id":          bookID,
		"available_copies": available,
	})
}

type circulationFlagRequest struct {
	InCirculation bool `json:"in_circulation"`
}

func (h *CirculationHandler) SetCirculationFlag(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	bookID, err := uuid.Parse(c.Params("book_id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid book id", nil)
	}

	var req circulationFlagRequest
	if err := c.BodyParser(&req); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{"error": err.Error()})
	}

	if err := h.circulationService.SetBookCirculation(caller, bookID, req.InCirculation); err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Circulation flag updated", map[string]interface{}{
		"book_id":        bookID,
		"in_circulation": req.InCirculation,
	})
}
