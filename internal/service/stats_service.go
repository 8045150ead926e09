package service

import (
	"fmt"

	"github.com/cosmiclattes/manos-library/internal/domain"
	"github.com/cosmiclattes/manos-library/internal/policy"
)

// StatsService aggregates the counters behind the librarian dashboard.
type StatsService struct {
	books     BookStore
	users     UserStore
	inventory InventoryStore
}

func NewStatsService(books BookStore, users UserStore, inventory InventoryStore) *StatsService {
	return &StatsService{
		books:     books,
		users:     users,
		inventory: inventory,
	}
}

func (s *StatsService) LibrarianStats(caller domain.Caller) (*domain.LibrarianStats, error) {
	if !policy.CanEditInventory(caller.Role) {
		return nil, fmt.Errorf("%w: role %q may not read librarian stats", domain.ErrForbidden, caller.Role)
	}

	totalBooks, err := s.books.Count()
	if err != nil {
		return nil, err
	}

	totalUsers, err := s.users.Count()
	if err != nil {
		return nil, err
	}

	totalBorrowed, err := s.inventory.SumBorrowed()
	if err != nil {
		return nil, err
	}

	return &domain.LibrarianStats{
		TotalBooks:    totalBooks,
		TotalUsers:    totalUsers,
		TotalBorrowed: totalBorrowed,
	}, nil
}
