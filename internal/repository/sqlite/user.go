package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"showgap/internal/domain"
	"showgap/internal/repository"
)

// UserRepository implements repository.UserRepository for SQLite
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *repository.User) error {
	now := timeNow()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, email, country, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		user.ID,
		user.Email,
		user.Country,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*repository.User, error) {
	var user repository.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, country FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Email, &user.Country)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// Delete removes a user and, via cascades, their subscriptions and
// watch state
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
