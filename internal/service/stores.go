package service

import (
	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/domain"
	"github.com/cosmiclattes/manos-library/internal/events"
)

// InventoryStore is the copy-count ledger for books. The two counter
// mutations are the per-book serialization point: each must be atomic with
// respect to concurrent callers on the same book, and operations on
// different books must not contend.
type InventoryStore interface {
	Get(bookID uuid.UUID) (*domain.Inventory, error)

	// Create fails with domain.ErrAlreadyExists when a record is present.
	Create(inv *domain.Inventory) error

	// SetCounts fully replaces both counters; domain.ErrNotFound when absent.
	SetCounts(inv *domain.Inventory) error

	// IncrementBorrowed atomically adds one borrowed copy. Fails with
	// domain.ErrNoAvailableCopies when borrowed == total, and
	// domain.ErrNotFound when no inventory record exists.
	IncrementBorrowed(bookID uuid.UUID) error

	// DecrementBorrowed atomically removes one borrowed copy. Fails with
	// domain.ErrInvalidState when borrowed == 0.
	DecrementBorrowed(bookID uuid.UUID) error

	List(offset, limit int) ([]*domain.Inventory, error)
	Delete(bookID uuid.UUID) error
	SumBorrowed() (int, error)
}

// BorrowStore keeps one record per (user, book) pair.
type BorrowStore interface {
	// Get fails with domain.ErrNotFound when no record exists for the pair.
	Get(userID, bookID uuid.UUID) (*domain.BorrowRecord, error)

	// MarkBorrowed creates the record if absent or reactivates it, bumping
	// BorrowCount by exactly one. Fails with domain.ErrAlreadyBorrowed when
	// the record is already active. Atomic per pair.
	MarkBorrowed(userID, bookID uuid.UUID) (*domain.BorrowRecord, error)

	// MarkReturned flips Active to false, leaving BorrowCount untouched.
	// Fails with domain.ErrNotBorrowed when no active record exists.
	MarkReturned(userID, bookID uuid.UUID) (*domain.BorrowRecord, error)

	// Reactivate restores Active on an inactive record without bumping
	// BorrowCount. Used only as the compensation step of a failed return.
	Reactivate(userID, bookID uuid.UUID) error

	ListActiveForUser(userID uuid.UUID) ([]*domain.BorrowRecord, error)
	ListAllForUser(userID uuid.UUID) ([]*domain.BorrowRecord, error)
	CountActiveForBook(bookID uuid.UUID) (int, error)
}

// BookStore reads catalog rows owned by the catalog service. The circulation
// core writes only the in_circulation flag.
type BookStore interface {
	Get(bookID uuid.UUID) (*domain.Book, error)
	SetInCirculation(bookID uuid.UUID, inCirculation bool) error
	Count() (int, error)
}

type UserStore interface {
	Get(userID uuid.UUID) (*domain.User, error)
	List(search string, offset, limit int) ([]*domain.User, error)
	UpdateRole(userID uuid.UUID, role domain.Role) error
	Count() (int, error)
}

// EventPublisher pushes circulation events to the broker. Publishing is
// best-effort: the coordinator logs failures and never rolls back a
// committed operation because of one.
type EventPublisher interface {
	PublishCirculationEvent(event events.CirculationEvent) error
}
