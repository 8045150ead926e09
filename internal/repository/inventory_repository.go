package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/cosmiclattes/manos-library/internal/domain"
)

// Postgres error code for unique_violation.
const pqUniqueViolation = "23505"

// InventoryRepository is the Postgres-backed copy-count ledger. Counter
// mutations are single guarded UPDATEs, so row-level atomicity makes each
// book its own serialization point; books never contend with one another.
type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Get(bookID uuid.UUID) (*domain.Inventory, error) {
	query := `
		SELECT book_id, total_copies, borrowed_copies
		FROM book_inventory
		WHERE book_id = $1
	`

	inv := &domain.Inventory{}
	err := r.db.QueryRow(query, bookID).Scan(&inv.BookID, &inv.TotalCopies, &inv.BorrowedCopies)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: inventory for book %s", domain.ErrNotFound, bookID)
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory: %w", err)
	}

	return inv, nil
}

func (r *InventoryRepository) Create(inv *domain.Inventory) error {
	query := `
		INSERT INTO book_inventory (book_id, total_copies, borrowed_copies)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(query, inv.BookID, inv.TotalCopies, inv.BorrowedCopies)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return fmt.Errorf("%w: book %s", domain.ErrAlreadyExists, inv.BookID)
	}
	if err != nil {
		return fmt.Errorf("create inventory: %w", err)
	}

	return nil
}

func (r *InventoryRepository) SetCounts(inv *domain.Inventory) error {
	query := `
		UPDATE book_inventory
		SET total_copies = $2, borrowed_copies = $3
		WHERE book_id = $1
	`

	result, err := r.db.Exec(query, inv.BookID, inv.TotalCopies, inv.BorrowedCopies)
	if err != nil {
		return fmt.Errorf("set inventory counts: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set inventory counts: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: inventory for book %s", domain.ErrNotFound, inv.BookID)
	}

	return nil
}

// IncrementBorrowed counts one more copy out. The availability guard lives
// in the UPDATE itself: of two concurrent calls racing for the last copy,
// exactly one matches the WHERE clause.
func (r *InventoryRepository) IncrementBorrowed(bookID uuid.UUID) error {
	query := `
		UPDATE book_inventory
		SET borrowed_copies = borrowed_copies + 1
		WHERE book_id = $1 AND borrowed_copies < total_copies
	`

	result, err := r.db.Exec(query, bookID)
	if err != nil {
		return fmt.Errorf("increment borrowed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment borrowed: %w", err)
	}
	if rows == 0 {
		// Either no record exists or every copy is out.
		if _, getErr := r.Get(bookID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: book %s", domain.ErrNoAvailableCopies, bookID)
	}

	return nil
}

func (r *InventoryRepository) DecrementBorrowed(bookID uuid.UUID) error {
	query := `
		UPDATE book_inventory
		SET borrowed_copies = borrowed_copies - 1
		WHERE book_id = $1 AND borrowed_copies > 0
	`

	result, err := r.db.Exec(query, bookID)
	if err != nil {
		return fmt.Errorf("decrement borrowed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement borrowed: %w", err)
	}
	if rows == 0 {
		if _, getErr := r.Get(bookID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: no copies of book %s are marked as borrowed", domain.ErrInvalidState, bookID)
	}

	return nil
}

func (r *InventoryRepository) List(offset, limit int) ([]*domain.Inventory, error) {
	query := `
		SELECT book_id, total_copies, borrowed_copies
		FROM book_inventory
		ORDER BY book_id
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.Query(query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var inventories []*domain.Inventory
	for rows.Next() {
		inv := &domain.Inventory{}
		if err := rows.Scan(&inv.BookID, &inv.TotalCopies, &inv.BorrowedCopies); err != nil {
			return nil, fmt.Errorf("list inventory: %w", err)
		}
		inventories = append(inventories, inv)
	}

	return inventories, rows.Err()
}

func (r *InventoryRepository) Delete(bookID uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM book_inventory WHERE book_id = $1`, bookID)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: inventory for book %s", domain.ErrNotFound, bookID)
	}

	return nil
}

func (r *InventoryRepository) SumBorrowed() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COALESCE(SUM(borrowed_copies), 0) FROM book_inventory`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum borrowed: %w", err)
	}
	return total, nil
}
