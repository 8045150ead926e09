// Package policy answers "may this caller perform this action". The
// predicates are pure; every role check in the service goes through here
// rather than being repeated at call sites.
package policy

import "github.com/cosmiclattes/manos-library/internal/domain"

// CanBorrow reports whether the caller may borrow the given book. Only
// members borrow through the circulation path, and only while the book is
// in circulation. The flag does not affect copies already held.
func CanBorrow(role domain.Role, book *domain.Book) bool {
	return role == domain.RoleMember && book.InCirculation
}

// CanEditInventory reports whether the caller may create, replace, or
// delete inventory counts.
func CanEditInventory(role domain.Role) bool {
	return role == domain.RoleLibrarian || role == domain.RoleSuperAdmin
}

// CanAdjustRole reports whether the caller may change another user's role.
// A super admin's role is immutable, even to another super admin.
func CanAdjustRole(role domain.Role, targetIsSuperAdmin bool) bool {
	if targetIsSuperAdmin {
		return false
	}
	return role == domain.RoleLibrarian || role == domain.RoleSuperAdmin
}
