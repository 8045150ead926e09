package domain

import "github.com/google/uuid"

type Role string

const (
	RoleMember     Role = "member"
	RoleLibrarian  Role = "librarian"
	RoleSuperAdmin Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleLibrarian, RoleSuperAdmin:
		return true
	}
	return false
}

// Caller is an authenticated principal as handed over by the upstream
// auth layer. Credential issuance and session handling live outside this
// service; the caller arrives already resolved to an ID and a role.
type Caller struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// Book carries the catalog metadata the circulation core reads. Metadata is
// owned by the catalog service; only InCirculation gates borrowing here.
type Book struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Author           string    `json:"author" db:"author"`
	Publisher        string    `json:"publisher,omitempty" db:"publisher"`
	Genre            string    `json:"genre,omitempty" db:"genre"`
	YearOfPublishing int       `json:"year_of_publishing,omitempty" db:"year_of_publishing"`
	InCirculation    bool      `json:"in_circulation" db:"in_circulation"`
}

type User struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Email    string    `json:"email" db:"email"`
	UserType Role      `json:"user_type" db:"user_type"`
}

// LibrarianStats is the aggregate view behind the librarian dashboard.
type LibrarianStats struct {
	TotalBooks    int `json:"total_books"`
	TotalUsers    int `json:"total_users"`
	TotalBorrowed int `json:"total_borrowed"`
}
