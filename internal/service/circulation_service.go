package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/domain"
	"github.com/cosmiclattes/manos-library/internal/events"
	"github.com/cosmiclattes/manos-library/internal/policy"
)

const serviceName = "circulation-service"

// CirculationService is the single entry point for borrow, return, and
// inventory adjustments. Each call either fully commits or fully fails: the
// store's guarded counter mutation is the commit point, and a partial
// failure after it is undone with an explicit compensating mutation.
type CirculationService struct {
	books     BookStore
	inventory InventoryStore
	borrows   BorrowStore
	publisher EventPublisher
}

// NewCirculationService wires the coordinator. publisher may be nil, which
// disables event publishing (used by tests and the in-memory backend).
func NewCirculationService(books BookStore, inventory InventoryStore, borrows BorrowStore, publisher EventPublisher) *CirculationService {
	return &CirculationService{
		books:     books,
		inventory: inventory,
		borrows:   borrows,
		publisher: publisher,
	}
}

// Borrow lends one copy of the book to the caller. The ledger increment
// commits first; if the registry step then fails, the increment is undone
// before the error is returned so no phantom borrowed copy is stranded.
func (s *CirculationService) Borrow(caller domain.Caller, bookID uuid.UUID) (*domain.BorrowRecord, error) {
	book, err := s.books.Get(bookID)
	if err != nil {
		return nil, err
	}

	if !policy.CanBorrow(caller.Role, book) {
		return nil, fmt.Errorf("%w: role %q may not borrow book %s", domain.ErrForbidden, caller.Role, bookID)
	}

	record, err := s.borrows.Get(caller.ID, bookID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if record != nil && record.Active {
		return nil, fmt.Errorf("%w: user %s, book %s", domain.ErrAlreadyBorrowed, caller.ID, bookID)
	}

	if err := s.inventory.IncrementBorrowed(bookID); err != nil {
		return nil, err
	}

	record, err = s.borrows.MarkBorrowed(caller.ID, bookID)
	if err != nil {
		// Compensating rollback: the ledger already counted this copy out.
		if undoErr := s.inventory.DecrementBorrowed(bookID); undoErr != nil {
			return nil, fmt.Errorf("%w: undoing borrow of book %s: %v (original error: %v)",
				domain.ErrInternalInconsistency, bookID, undoErr, err)
		}
		return nil, err
	}

	s.publishBorrowEvent(events.BookBorrowedEvent, record)

	log.Printf("Book borrowed: UserID=%s, BookID=%s, BorrowCount=%d", caller.ID, bookID, record.BorrowCount)
	return record, nil
}

// Return gives the caller's copy back. The registry flip commits first; if
// the ledger decrement then fails, the record is reactivated before the
// error is returned.
func (s *CirculationService) Return(caller domain.Caller, bookID uuid.UUID) (*domain.BorrowRecord, error) {
	record, err := s.borrows.MarkReturned(caller.ID, bookID)
	if err != nil {
		return nil, err
	}

	if err := s.inventory.DecrementBorrowed(bookID); err != nil {
		if undoErr := s.borrows.Reactivate(caller.ID, bookID); undoErr != nil {
			return nil, fmt.Errorf("%w: undoing return of book %s: %v (original error: %v)",
				domain.ErrInternalInconsistency, bookID, undoErr, err)
		}
		return nil, err
	}

	s.publishBorrowEvent(events.BookReturnedEvent, record)

	log.Printf("Book returned: UserID=%s, BookID=%s", caller.ID, bookID)
	return record, nil
}

// CreateInventory registers copy counts for a book that has none yet.
func (s *CirculationService) CreateInventory(caller domain.Caller, bookID uuid.UUID, totalCopies, borrowedCopies int) (*domain.Inventory, error) {
	if !policy.CanEditInventory(caller.Role) {
		return nil, fmt.Errorf("%w: role %q may not edit inventory", domain.ErrForbidden, caller.Role)
	}

	inv := &domain.Inventory{BookID: bookID, TotalCopies: totalCopies, BorrowedCopies: borrowedCopies}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.books.Get(bookID); err != nil {
		return nil, err
	}

	if err := s.inventory.Create(inv); err != nil {
		return nil, err
	}

	s.warnOnDivergence(bookID, borrowedCopies)
	s.publishInventoryEvent(events.InventoryAdjustedEvent, caller.ID, inv)

	log.Printf("Inventory created: BookID=%s, Total=%d, Borrowed=%d", bookID, totalCopies, borrowedCopies)
	return inv, nil
}

// UpdateInventory fully replaces the copy counts for a book. This is an
// administrative override: it does not touch borrow records, so the raw
// borrowed counter may diverge from the number of active records.
func (s *CirculationService) UpdateInventory(caller domain.Caller, bookID uuid.UUID, totalCopies, borrowedCopies int) (*domain.Inventory, error) {
	if !policy.CanEditInventory(caller.Role) {
		return nil, fmt.Errorf("%w: role %q may not edit inventory", domain.ErrForbidden, caller.Role)
	}

	inv := &domain.Inventory{BookID: bookID, TotalCopies: totalCopies, BorrowedCopies: borrowedCopies}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.inventory.SetCounts(inv); err != nil {
		return nil, err
	}

	s.warnOnDivergence(bookID, borrowedCopies)
	s.publishInventoryEvent(events.InventoryAdjustedEvent, caller.ID, inv)

	log.Printf("Inventory updated: BookID=%s, Total=%d, Borrowed=%d", bookID, totalCopies, borrowedCopies)
	return inv, nil
}

// GetInventory returns the raw copy counts for one book.
func (s *CirculationService) GetInventory(caller domain.Caller, bookID uuid.UUID) (*domain.Inventory, error) {
	if !policy.CanEditInventory(caller.Role) {
		return nil, fmt.Errorf("%w: role %q may not read inventory", domain.ErrForbidden, caller.Role)
	}
	return s.inventory.Get(bookID)
}

// ListInventory pages through all inventory records.
func (s *CirculationService) ListInventory(caller domain.Caller, offset, limit int) ([]*domain.Inventory, error) {
	if !policy.CanEditInventory(caller.Role) {
		return nil, fmt.Errorf("%w: role %q may not read inventory", domain.ErrForbidden, caller.Role)
	}
	return s.inventory.List(offset, limit)
}

// DeleteInventory removes the copy counts for a book entirely.
func (s *CirculationService) DeleteInventory(caller domain.Caller, bookID uuid.UUID) error {
	if !policy.CanEditInventory(caller.Role) {
		return fmt.Errorf("%w: role %q may not edit inventory", domain.ErrForbidden, caller.Role)
	}

	if err := s.inventory.Delete(bookID); err != nil {
		return err
	}

	s.publishInventoryEvent(events.InventoryRemovedEvent, caller.ID, &domain.Inventory{BookID: bookID})

	log.Printf("Inventory deleted: BookID=%s", bookID)
	return nil
}

// GetAvailability returns the derived available-copy count for a book.
// domain.ErrNotFound means no inventory record exists; callers treat that
// as zero known copies.
func (s *CirculationService) GetAvailability(bookID uuid.UUID) (int, error) {
	inv, err := s.inventory.Get(bookID)
	if err != nil {
		return 0, err
	}
	return inv.AvailableCopies(), nil
}

// ListMyBorrows returns the caller's active borrow records.
func (s *CirculationService) ListMyBorrows(caller domain.Caller) ([]*domain.BorrowRecord, error) {
	return s.borrows.ListActiveForUser(caller.ID)
}

// BorrowHistory returns every borrow record for the caller, returned or not.
func (s *CirculationService) BorrowHistory(caller domain.Caller) ([]*domain.BorrowRecord, error) {
	return s.borrows.ListAllForUser(caller.ID)
}

// SetBookCirculation flips whether new borrows of the book are allowed.
// Existing holds are unaffected.
func (s *CirculationService) SetBookCirculation(caller domain.Caller, bookID uuid.UUID, inCirculation bool) error {
	if !policy.CanEditInventory(caller.Role) {
		return fmt.Errorf("%w: role %q may not edit circulation status", domain.ErrForbidden, caller.Role)
	}
	return s.books.SetInCirculation(bookID, inCirculation)
}

// warnOnDivergence logs when an administrative override desynchronizes the
// borrowed counter from the number of active borrow records. The override
// is a capability, not a bug, so the service only warns.
func (s *CirculationService) warnOnDivergence(bookID uuid.UUID, borrowedCopies int) {
	active, err := s.borrows.CountActiveForBook(bookID)
	if err != nil {
		log.Printf("Divergence check failed: BookID=%s: %v", bookID, err)
		return
	}
	if active != borrowedCopies {
		log.Printf("Inventory override diverges from borrow records: BookID=%s, BorrowedCopies=%d, ActiveRecords=%d",
			bookID, borrowedCopies, active)
	}
}

func (s *CirculationService) publishBorrowEvent(eventType events.CirculationEventType, record *domain.BorrowRecord) {
	if s.publisher == nil {
		return
	}

	event := events.CirculationEvent{
		ID:            uuid.New(),
		BookID:        record.BookID,
		UserID:        record.UserID,
		EventType:     eventType,
		Service:       serviceName,
		CorrelationID: uuid.New(),
		Payload:       events.BorrowPayload{Record: *record},
	}

	if err := s.publisher.PublishCirculationEvent(event); err != nil {
		log.Printf("Event publish failed (operation already committed): %s: %v", eventType, err)
	}
}

func (s *CirculationService) publishInventoryEvent(eventType events.CirculationEventType, adjustedBy uuid.UUID, inv *domain.Inventory) {
	if s.publisher == nil {
		return
	}

	event := events.CirculationEvent{
		ID:            uuid.New(),
		BookID:        inv.BookID,
		EventType:     eventType,
		Service:       serviceName,
		CorrelationID: uuid.New(),
		Payload:       events.InventoryAdjustedPayload{Inventory: *inv, AdjustedBy: adjustedBy},
	}

	if err := s.publisher.PublishCirculationEvent(event); err != nil {
		log.Printf("Event publish failed (operation already committed): %s: %v", eventType, err)
	}
}
