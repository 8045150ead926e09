package domain

import "github.com/google/uuid"

// BorrowRecord is the one record per (user, book) pair. Active flips true on
// borrow and false on return; BorrowCount counts completed borrows and never
// decreases.
type BorrowRecord struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	BookID      uuid.UUID `json:"book_id" db:"book_id"`
	Active      bool      `json:"active" db:"active"`
	BorrowCount int       `json:"borrow_count" db:"borrow_count"`
}
