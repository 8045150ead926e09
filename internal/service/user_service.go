package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/domain"
	"github.com/cosmiclattes/manos-library/internal/policy"
)

// UserService covers the small slice of user administration the circulation
// core owns: listing users and moving them between member and librarian.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// ListUsers pages through users, optionally filtered by a name/email search.
func (s *UserService) ListUsers(caller domain.Caller, search string, offset, limit int) ([]*domain.User, error) {
	if !policy.CanEditInventory(caller.Role) {
		return nil, fmt.Errorf("%w: role %q may not list users", domain.ErrForbidden, caller.Role)
	}
	return s.users.List(search, offset, limit)
}

// UpdateUserRole changes a user's role. Super admins are immutable, the
// super_admin role is not grantable, and callers cannot change their own
// role.
func (s *UserService) UpdateUserRole(caller domain.Caller, targetID uuid.UUID, newRole domain.Role) (*domain.User, error) {
	target, err := s.users.Get(targetID)
	if err != nil {
		return nil, err
	}

	if !policy.CanAdjustRole(caller.Role, target.UserType == domain.RoleSuperAdmin) {
		return nil, fmt.Errorf("%w: role %q may not adjust role of user %s", domain.ErrForbidden, caller.Role, targetID)
	}

	if newRole != domain.RoleMember && newRole != domain.RoleLibrarian {
		return nil, fmt.Errorf("%w: role can only be set to member or librarian", domain.ErrInvalidState)
	}

	if target.ID == caller.ID {
		return nil, fmt.Errorf("%w: callers may not change their own role", domain.ErrForbidden)
	}

	if err := s.users.UpdateRole(targetID, newRole); err != nil {
		return nil, err
	}

	target.UserType = newRole
	log.Printf("User role updated: UserID=%s, NewRole=%s, By=%s", targetID, newRole, caller.ID)
	return target, nil
}
