package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/voicehealth/backend/internal/models"
	"github.com/voicehealth/backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a SQLite-backed user repository
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, created_at) VALUES (?, ?)`,
		user.ID, encodeTime(user.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var (
		user      models.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM users WHERE id = ?`, id).
		Scan(&user.ID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	return &user, nil
}
