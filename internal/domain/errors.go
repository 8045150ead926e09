package domain

import "errors"

// Sentinel errors returned by circulation operations. Handlers and callers
// classify with errors.Is; every failure a caller can act on carries exactly
// one of these kinds.
var (
	// ErrForbidden is returned when the caller's role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted for caller role")

	// ErrAlreadyBorrowed is returned when the user already holds a copy of the book.
	ErrAlreadyBorrowed = errors.New("book already borrowed by this user")

	// ErrNotBorrowed is returned when no active borrow record exists for the user and book.
	ErrNotBorrowed = errors.New("no active borrow record for this book")

	// ErrNoAvailableCopies is returned when every copy of the book is lent out.
	ErrNoAvailableCopies = errors.New("no copies available for borrowing")

	// ErrInvalidState is returned for malformed copy counts.
	ErrInvalidState = errors.New("invalid inventory state")

	// ErrNotFound is returned when a book, inventory record, or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when an inventory record already exists for a book.
	ErrAlreadyExists = errors.New("inventory already exists for this book")

	// ErrInternalInconsistency is returned when a compensating rollback fails.
	// It always indicates a bug or storage fault, never an expected outcome.
	ErrInternalInconsistency = errors.New("internal inconsistency: rollback failed")
)
