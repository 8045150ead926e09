package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/domain"
)

// BookRepository reads catalog rows. The catalog service owns book
// metadata; the only column the circulation core writes is in_circulation.
type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Get(bookID uuid.UUID) (*domain.Book, error) {
	query := `
		SELECT id, title, author, COALESCE(publisher, ''), COALESCE(genre, ''),
			COALESCE(year_of_publishing, 0), in_circulation
		FROM books
		WHERE id = $1
	`

	book := &domain.Book{}
	err := r.db.QueryRow(query, bookID).Scan(
		&book.ID, &book.Title, &book.Author, &book.Publisher,
		&book.Genre, &book.YearOfPublishing, &book.InCirculation)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: book %s", domain.ErrNotFound, bookID)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	return book, nil
}

func (r *BookRepository) SetInCirculation(bookID uuid.UUID, inCirculation bool) error {
	result, err := r.db.Exec(`UPDATE books SET in_circulation = $2 WHERE id = $1`, bookID, inCirculation)
	if err != nil {
		return fmt.Errorf("set circulation flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set circulation flag: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: book %s", domain.ErrNotFound, bookID)
	}

	return nil
}

func (r *BookRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return count, nil
}
