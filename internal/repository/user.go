package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voicehealth/backend/internal/models"
	"github.com/voicehealth/backend/pkg/supabase"
)

type userRepository struct {
	client *supabase.Client
}

// NewUserRepository creates a new user repository
func NewUserRepository(client *supabase.Client) UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	data := map[string]interface{}{
		"id":         user.ID,
		"created_at": user.CreatedAt,
	}

	body, err := r.client.Insert(ctx, "users", data)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	var users []models.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no user returned")
	}

	return &users[0], nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := map[string]interface{}{
		"id":     fmt.Sprintf("eq.%s", id),
		"select": "*",
		"limit":  1,
	}

	body, err := r.client.Query(ctx, "users", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var users []models.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}

	return &users[0], nil
}
