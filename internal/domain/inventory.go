package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Inventory tracks the physical copies of one book. AvailableCopies is
// always derived from the two stored counters, never materialized.
type Inventory struct {
	BookID         uuid.UUID `json:"book_id" db:"book_id"`
	TotalCopies    int       `json:"total_copies" db:"total_copies"`
	BorrowedCopies int       `json:"borrowed_copies" db:"borrowed_copies"`
}

func (i *Inventory) AvailableCopies() int {
	return i.TotalCopies - i.BorrowedCopies
}

func (i *Inventory) HasAvailableCopies() bool {
	return i.AvailableCopies() > 0
}

// Validate enforces the ledger invariant: both counters non-negative and
// borrowed never above total.
func (i *Inventory) Validate() error {
	if i.TotalCopies < 0 || i.BorrowedCopies < 0 {
		return fmt.Errorf("%w: copy counts must not be negative (total=%d, borrowed=%d)",
			ErrInvalidState, i.TotalCopies, i.BorrowedCopies)
	}
	if i.BorrowedCopies > i.TotalCopies {
		return fmt.Errorf("%w: borrowed copies (%d) exceed total copies (%d)",
			ErrInvalidState, i.BorrowedCopies, i.TotalCopies)
	}
	return nil
}
