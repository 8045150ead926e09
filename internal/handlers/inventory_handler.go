package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/httpapi"
	"github.com/cosmiclattes/manos-library/internal/service"
)

type InventoryHandler struct {
	circulationService *service.CirculationService
}

func NewInventoryHandler(circulationService *service.CirculationService) *InventoryHandler {
	return &InventoryHandler{
		circulationService: circulationService,
	}
}

type inventoryRequest struct {
	BookID         uuid.UUID `json:"book_id"`
	TotalCopies    int       `json:"total_copies"`
	BorrowedCopies int       `json:"borrowed_copies"`
}

func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	var req inventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{"error": err.Error()})
	}
	if req.BookID == uuid.Nil {
		return httpapi.BadRequestResponse(c, "book_id is required", nil)
	}

	inv, err := h.circulationService.CreateInventory(caller, req.BookID, req.TotalCopies, req.BorrowedCopies)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.CreatedResponse(c, "Inventory created", inv)
}

func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	bookID, err := uuid.Parse(c.Params("book_id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid book id", nil)
	}

	var req inventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{"error": err.Error()})
	}

	inv, err := h.circulationService.UpdateInventory(caller, bookID, req.TotalCopies, req.BorrowedCopies)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Inventory updated", inv)
}

func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	bookID, err := uuid.Parse(c.Params("book_id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid book id", nil)
	}

	inv, err := h.circulationService.GetInventory(caller, bookID)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Inventory", inv)
}

func (h *InventoryHandler) List(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	offset := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	inventories, err := h.circulationService.ListInventory(caller, offset, limit)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Inventory list", inventories)
}

func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	bookID, err := uuid.Parse(c.Params("book_id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid book id", nil)
	}

	if err := h.circulationService.DeleteInventory(caller, bookID); err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
