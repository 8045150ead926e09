package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Get(userID uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, email, user_type
		FROM users
		WHERE id = $1
	`

	user := &domain.User{}
	err := r.db.QueryRow(query, userID).Scan(&user.ID, &user.Name, &user.Email, &user.UserType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) List(search string, offset, limit int) ([]*domain.User, error) {
	query := `
		SELECT id, name, email, user_type
		FROM users
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		ORDER BY id
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(query, search, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.UserType); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *UserRepository) UpdateRole(userID uuid.UUID, role domain.Role) error {
	result, err := r.db.Exec(`UPDATE users SET user_type = $2 WHERE id = $1`, userID, string(role))
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, userID)
	}

	return nil
}

func (r *UserRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}
