// Package memstore is an in-memory implementation of the circulation
// stores. It backs the service's embedded mode and the unit tests; the
// Postgres repositories are the production path.
//
// The unit of contention is the book: guarded counter mutations and borrow
// transitions for one book serialize on that book's mutex, while distinct
// books proceed in parallel. The store-wide mutex only guards the maps
// themselves and is never held across a check-then-act sequence.
package memstore

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/domain"
)

type borrowKey struct {
	userID uuid.UUID
	bookID uuid.UUID
}

type Store struct {
	mu          sync.RWMutex
	books       map[uuid.UUID]domain.Book
	inventories map[uuid.UUID]domain.Inventory
	borrows     map[borrowKey]domain.BorrowRecord
	users       map[uuid.UUID]domain.User
	bookLocks   map[uuid.UUID]*sync.Mutex
}

func New() *Store {
	return &Store{
		books:       make(map[uuid.UUID]domain.Book),
		inventories: make(map[uuid.UUID]domain.Inventory),
		borrows:     make(map[borrowKey]domain.BorrowRecord),
		users:       make(map[uuid.UUID]domain.User),
		bookLocks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

// bookLock returns the mutex owning all mutations for one book, creating
// it on first use.
func (s *Store) bookLock(bookID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.bookLocks[bookID]
	if !ok {
		lock = &sync.Mutex{}
		s.bookLocks[bookID] = lock
	}
	return lock
}

// ---------------------------------------------------------------------------
// Seeding (catalog and users are owned by external services in production)
// ---------------------------------------------------------------------------

func (s *Store) AddBook(book domain.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[book.ID] = book
}

func (s *Store) AddUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// ---------------------------------------------------------------------------
// BookStore
// ---------------------------------------------------------------------------

func (s *Store) GetBook(bookID uuid.UUID) (*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[bookID]
	if !ok {
		return nil, fmt.Errorf("%w: book %s", domain.ErrNotFound, bookID)
	}
	return &book, nil
}

func (s *Store) SetInCirculation(bookID uuid.UUID, inCirculation bool) error {
	lock := s.bookLock(bookID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[bookID]
	if !ok {
		return fmt.Errorf("%w: book %s", domain.ErrNotFound, bookID)
	}
	book.InCirculation = inCirculation
	s.books[bookID] = book
	return nil
}

func (s *Store) CountBooks() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books), nil
}

// ---------------------------------------------------------------------------
// InventoryStore
// ---------------------------------------------------------------------------

func (s *Store) GetInventory(bookID uuid.UUID) (*domain.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.inventories[bookID]
	if !ok {
		return nil, fmt.Errorf("%w: inventory for book %s", domain.ErrNotFound, bookID)
	}
	return &inv, nil
}

func (s *Store) CreateInventory(inv *domain.Inventory) error {
	if err := inv.Validate(); err != nil {
		return err
	}

	lock := s.bookLock(inv.BookID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inventories[inv.BookID]; ok {
		return fmt.Errorf("%w: book %s", domain.ErrAlreadyExists, inv.BookID)
	}
	s.inventories[inv.BookID] = *inv
	return nil
}

func (s *Store) SetCounts(inv *domain.Inventory) error {
	if err := inv.Validate(); err != nil {
		return err
	}

	lock := s.bookLock(inv.BookID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inventories[inv.BookID]; !ok {
		return fmt.Errorf("%w: inventory for book %s", domain.ErrNotFound, inv.BookID)
	}
	s.inventories[inv.BookID] = *inv
	return nil
}

func (s *Store) IncrementBorrowed(bookID uuid.UUID) error {
	lock := s.bookLock(bookID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	inv, ok := s.inventories[bookID]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: inventory for book %s", domain.ErrNotFound, bookID)
	}
	if inv.BorrowedCopies >= inv.TotalCopies {
		return fmt.Errorf("%w: book %s", domain.ErrNoAvailableCopies, bookID)
	}
	inv.BorrowedCopies++

	s.mu.Lock()
	s.inventories[bookID] = inv
	s.mu.Unlock()
	return nil
}

func (s *Store) DecrementBorrowed(bookID uuid.UUID) error {
	lock := s.bookLock(bookID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	inv, ok := s.inventories[bookID]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: inventory for book %s", domain.ErrNotFound, bookID)
	}
	if inv.BorrowedCopies == 0 {
		return fmt.Errorf("%w: no copies of book %s are marked as borrowed", domain.ErrInvalidState, bookID)
	}
	inv.BorrowedCopies--

	s.mu.Lock()
	s.inventories[bookID] = inv
	s.mu.Unlock()
	return nil
}

func (s *Store) ListInventory(offset, limit int) ([]*domain.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(s.inventories))
	for id := range s.inventories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var result []*domain.Inventory
	for i := offset; i < len(ids) && len(result) < limit; i++ {
		inv := s.inventories[ids[i]]
		result = append(result, &inv)
	}
	return result, nil
}

func (s *Store) DeleteInventory(bookID uuid.UUID) error {
	lock := s.bookLock(bookID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inventories[bookID]; !ok {
		return fmt.Errorf("%w: inventory for book %s", domain.ErrNotFound, bookID)
	}
	delete(s.inventories, bookID)
	return nil
}

func (s *Store) SumBorrowed() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, inv := range s.inventories {
		total += inv.BorrowedCopies
	}
	return total, nil
}

// ---------------------------------------------------------------------------
// BorrowStore
// ---------------------------------------------------------------------------

func (s *Store) GetBorrow(userID, bookID uuid.UUID) (*domain.BorrowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.borrows[borrowKey{userID, bookID}]
	if !ok {
		return nil, fmt.Errorf("%w: borrow record for user %s, book %s", domain.ErrNotFound, userID, bookID)
	}
	return &record, nil
}

func (s *Store) MarkBorrowed(userID, bookID uuid.UUID) (*domain.BorrowRecord, error) {
	lock := s.bookLock(bookID)
	lock.Lock()
	defer lock.Unlock()

	key := borrowKey{userID, bookID}

	s.mu.RLock()
	record, ok := s.borrows[key]
	s.mu.RUnlock()

	if ok && record.Active {
		return nil, fmt.Errorf("%w: user %s, book %s", domain.ErrAlreadyBorrowed, userID, bookID)
	}
	if !ok {
		record = domain.BorrowRecord{UserID: userID, BookID: bookID}
	}
	record.Active = true
	record.BorrowCount++

	s.mu.Lock()
	s.borrows[key] = record
	s.mu.Unlock()
	return &record, nil
}

func (s *Store) MarkReturned(userID, bookID uuid.UUID) (*domain.BorrowRecord, error) {
	lock := s.bookLock(bookID)
	lock.Lock()
	defer lock.Unlock()

	key := borrowKey{userID, bookID}

	s.mu.RLock()
	record, ok := s.borrows[key]
	s.mu.RUnlock()

	if !ok || !record.Active {
		return nil, fmt.Errorf("%w: user %s, book %s", domain.ErrNotBorrowed, userID, bookID)
	}
	record.Active = false

	s.mu.Lock()
	s.borrows[key] = record
	s.mu.Unlock()
	return &record, nil
}

func (s *Store) Reactivate(userID, bookID uuid.UUID) error {
	lock := s.bookLock(bookID)
	lock.Lock()
	defer lock.Unlock()

	key := borrowKey{userID, bookID}

	s.mu.RLock()
	record, ok := s.borrows[key]
	s.mu.RUnlock()

	if !ok || record.Active {
		return fmt.Errorf("reactivate borrow record: no inactive record for user %s, book %s", userID, bookID)
	}
	record.Active = true

	s.mu.Lock()
	s.borrows[key] = record
	s.mu.Unlock()
	return nil
}

func (s *Store) ListActiveForUser(userID uuid.UUID) ([]*domain.BorrowRecord, error) {
	return s.listForUser(userID, true)
}

func (s *Store) ListAllForUser(userID uuid.UUID) ([]*domain.BorrowRecord, error) {
	return s.listForUser(userID, false)
}

func (s *Store) listForUser(userID uuid.UUID, activeOnly bool) ([]*domain.BorrowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*domain.BorrowRecord
	for key, record := range s.borrows {
		if key.userID != userID {
			continue
		}
		if activeOnly && !record.Active {
			continue
		}
		r := record
		records = append(records, &r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].BookID.String() < records[j].BookID.String()
	})
	return records, nil
}

func (s *Store) CountActiveForBook(bookID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for key, record := range s.borrows {
		if key.bookID == bookID && record.Active {
			count++
		}
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// UserStore
// ---------------------------------------------------------------------------

func (s *Store) GetUser(userID uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	return &user, nil
}

func (s *Store) ListUsers(search string, offset, limit int) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var result []*domain.User
	skipped := 0
	for _, id := range ids {
		user := s.users[id]
		if search != "" && !containsFold(user.Name, search) && !containsFold(user.Email, search) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(result) >= limit {
			break
		}
		u := user
		result = append(result, &u)
	}
	return result, nil
}

func (s *Store) UpdateRole(userID uuid.UUID, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	user.UserType = role
	s.users[userID] = user
	return nil
}

func (s *Store) CountUsers() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
