package memstore

import (
	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/domain"
)

// The service layer consumes one interface per store. These views slice the
// shared Store into those shapes without splitting the underlying state.

type BookView struct{ s *Store }

func (s *Store) Books() BookView { return BookView{s} }

func (v BookView) Get(bookID uuid.UUID) (*domain.Book, error) { return v.s.GetBook(bookID) }
func (v BookView) SetInCirculation(bookID uuid.UUID, inCirculation bool) error {
	return v.s.SetInCirculation(bookID, inCirculation)
}
func (v BookView) Count() (int, error) { return v.s.CountBooks() }

type InventoryView struct{ s *Store }

func (s *Store) Inventories() InventoryView { return InventoryView{s} }

func (v InventoryView) Get(bookID uuid.UUID) (*domain.Inventory, error) {
	return v.s.GetInventory(bookID)
}
func (v InventoryView) Create(inv *domain.Inventory) error       { return v.s.CreateInventory(inv) }
func (v InventoryView) SetCounts(inv *domain.Inventory) error    { return v.s.SetCounts(inv) }
func (v InventoryView) IncrementBorrowed(bookID uuid.UUID) error { return v.s.IncrementBorrowed(bookID) }
func (v InventoryView) DecrementBorrowed(bookID uuid.UUID) error { return v.s.DecrementBorrowed(bookID) }
func (v InventoryView) List(offset, limit int) ([]*domain.Inventory, error) {
	return v.s.ListInventory(offset, limit)
}
func (v InventoryView) Delete(bookID uuid.UUID) error { return v.s.DeleteInventory(bookID) }
func (v InventoryView) SumBorrowed() (int, error)     { return v.s.SumBorrowed() }

type BorrowView struct{ s *Store }

func (s *Store) Borrows() BorrowView { return BorrowView{s} }

func (v BorrowView) Get(userID, bookID uuid.UUID) (*domain.BorrowRecord, error) {
	return v.s.GetBorrow(userID, bookID)
}
func (v BorrowView) MarkBorrowed(userID, bookID uuid.UUID) (*domain.BorrowRecord, error) {
	return v.s.MarkBorrowed(userID, bookID)
}
func (v BorrowView) MarkReturned(userID, bookID uuid.UUID) (*domain.BorrowRecord, error) {
	return v.s.MarkReturned(userID, bookID)
}
func (v BorrowView) Reactivate(userID, bookID uuid.UUID) error {
	return v.s.Reactivate(userID, bookID)
}
func (v BorrowView) ListActiveForUser(userID uuid.UUID) ([]*domain.BorrowRecord, error) {
	return v.s.ListActiveForUser(userID)
}
func (v BorrowView) ListAllForUser(userID uuid.UUID) ([]*domain.BorrowRecord, error) {
	return v.s.ListAllForUser(userID)
}
func (v BorrowView) CountActiveForBook(bookID uuid.UUID) (int, error) {
	return v.s.CountActiveForBook(bookID)
}

type UserView struct{ s *Store }

func (s *Store) Users() UserView { return UserView{s} }

func (v UserView) Get(userID uuid.UUID) (*domain.User, error) { return v.s.GetUser(userID) }
func (v UserView) List(search string, offset, limit int) ([]*domain.User, error) {
	return v.s.ListUsers(search, offset, limit)
}
func (v UserView) UpdateRole(userID uuid.UUID, role domain.Role) error {
	return v.s.UpdateRole(userID, role)
}
func (v UserView) Count() (int, error) { return v.s.CountUsers() }
