package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/domain"
	"github.com/cosmiclattes/manos-library/internal/httpapi"
	"github.com/cosmiclattes/manos-library/internal/service"
)

type UsersHandler struct {
	userService *service.UserService
}

func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{
		userService: userService,
	}
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	search := c.Query("search")
	offset := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)

	users, err := h.userService.ListUsers(caller, search, offset, limit)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Users", users)
}

type updateRoleRequest struct {
	UserType domain.Role `json:"user_type"`
}

func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	caller, err := callerFromRequest(c)
	if err != nil {
		return httpapi.UnauthorizedResponse(c, err.Error())
	}

	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid user id", nil)
	}

	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return httpapi.BadRequestResponse(c, "Invalid request body", map[string]interface{}{"error": err.Error()})
	}

	user, err := h.userService.UpdateUserRole(caller, userID, req.UserType)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "User role updated", user)
}
