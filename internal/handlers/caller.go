package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/domain"
)

// callerFromRequest resolves the authenticated caller from the identity
// headers set by the gateway in front of this service. Token validation and
// session handling happen there; by the time a request arrives here it
// carries a resolved user ID and role.
func callerFromRequest(c *fiber.Ctx) (domain.Caller, error) {
	rawID := c.Get("X-User-ID")
	if rawID == "" {
		return domain.Caller{}, fmt.Errorf("missing X-User-ID header")
	}

	userID, err := uuid.Parse(rawID)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("invalid X-User-ID header: %v", err)
	}

	role := domain.Role(c.Get("X-User-Role"))
	if !role.Valid() {
		return domain.Caller{}, fmt.Errorf("missing or invalid X-User-Role header")
	}

	return domain.Caller{ID: userID, Role: role}, nil
}
