package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/domain"
)

// BorrowRepository keeps one borrow record per (user, book) pair. The
// borrow and return transitions are single conditional statements, so each
// pair's record flips atomically under concurrent requests.
type BorrowRepository struct {
	db *sql.DB
}

func NewBorrowRepository(db *sql.DB) *BorrowRepository {
	return &BorrowRepository{db: db}
}

func (r *BorrowRepository) Get(userID, bookID uuid.UUID) (*domain.BorrowRecord, error) {
	query := `
		SELECT user_id, book_id, active, borrow_count
		FROM borrow_records
		WHERE user_id = $1 AND book_id = $2
	`

	record := &domain.BorrowRecord{}
	err := r.db.QueryRow(query, userID, bookID).Scan(
		&record.UserID, &record.BookID, &record.Active, &record.BorrowCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: borrow record for user %s, book %s", domain.ErrNotFound, userID, bookID)
	}
	if err != nil {
		return nil, fmt.Errorf("get borrow record: %w", err)
	}

	return record, nil
}

// MarkBorrowed creates or reactivates the record and bumps borrow_count by
// one. The upsert's WHERE clause rejects an already-active record, so a
// user racing against themselves gets exactly one success.
func (r *BorrowRepository) MarkBorrowed(userID, bookID uuid.UUID) (*domain.BorrowRecord, error) {
	query := `
		INSERT INTO borrow_records (user_id, book_id, active, borrow_count)
		VALUES ($1, $2, TRUE, 1)
		ON CONFLICT (user_id, book_id) DO UPDATE
			SET active = TRUE, borrow_count = borrow_records.borrow_count + 1
			WHERE borrow_records.active = FALSE
		RETURNING user_id, book_id, active, borrow_count
	`

	record := &domain.BorrowRecord{}
	err := r.db.QueryRow(query, userID, bookID).Scan(
		&record.UserID, &record.BookID, &record.Active, &record.BorrowCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s, book %s", domain.ErrAlreadyBorrowed, userID, bookID)
	}
	if err != nil {
		return nil, fmt.Errorf("mark borrowed: %w", err)
	}

	return record, nil
}

func (r *BorrowRepository) MarkReturned(userID, bookID uuid.UUID) (*domain.BorrowRecord, error) {
	query := `
		UPDATE borrow_records
		SET active = FALSE
		WHERE user_id = $1 AND book_id = $2 AND active = TRUE
		RETURNING user_id, book_id, active, borrow_count
	`

	record := &domain.BorrowRecord{}
	err := r.db.QueryRow(query, userID, bookID).Scan(
		&record.UserID, &record.BookID, &record.Active, &record.BorrowCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s, book %s", domain.ErrNotBorrowed, userID, bookID)
	}
	if err != nil {
		return nil, fmt.Errorf("mark returned: %w", err)
	}

	return record, nil
}

// Reactivate restores active on a just-returned record without touching
// borrow_count. Compensation path only.
func (r *BorrowRepository) Reactivate(userID, bookID uuid.UUID) error {
	query := `
		UPDATE borrow_records
		SET active = TRUE
		WHERE user_id = $1 AND book_id = $2 AND active = FALSE
	`

	result, err := r.db.Exec(query, userID, bookID)
	if err != nil {
		return fmt.Errorf("reactivate borrow record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reactivate borrow record: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("reactivate borrow record: no inactive record for user %s, book %s", userID, bookID)
	}

	return nil
}

func (r *BorrowRepository) ListActiveForUser(userID uuid.UUID) ([]*domain.BorrowRecord, error) {
	query := `
		SELECT user_id, book_id, active, borrow_count
		FROM borrow_records
		WHERE user_id = $1 AND active = TRUE
		ORDER BY book_id
	`
	return r.listForUser(query, userID)
}

func (r *BorrowRepository) ListAllForUser(userID uuid.UUID) ([]*domain.BorrowRecord, error) {
	query := `
		SELECT user_id, book_id, active, borrow_count
		FROM borrow_records
		WHERE user_id = $1
		ORDER BY book_id
	`
	return r.listForUser(query, userID)
}

func (r *BorrowRepository) listForUser(query string, userID uuid.UUID) ([]*domain.BorrowRecord, error) {
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("list borrow records: %w", err)
	}
	defer rows.Close()

	var records []*domain.BorrowRecord
	for rows.Next() {
		record := &domain.BorrowRecord{}
		if err := rows.Scan(&record.UserID, &record.BookID, &record.Active, &record.BorrowCount); err != nil {
			return nil, fmt.Errorf("list borrow records: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *BorrowRepository) CountActiveForBook(bookID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM borrow_records WHERE book_id = $1 AND active = TRUE`, bookID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active borrows: %w", err)
	}
	return count, nil
}
