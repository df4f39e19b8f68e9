package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voicehealth/backend/internal/models"
	"github.com/voicehealth/backend/pkg/supabase"
)

type correlationRepository struct {
	client *supabase.Client
}

// NewCorrelationRepository creates a new correlation repository
func NewCorrelationRepository(client *supabase.Client) CorrelationRepository {
	return &correlationRepository{client: client}
}

// ReplaceForUser deletes the user's stored correlations and inserts the new
// set. The engine recomputes the full set every time, so there is nothing
// to merge.
func (r *correlationRepository) ReplaceForUser(ctx context.Context, userID string, correlations []models.Correlation) error {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
	}
	if err := r.client.DeleteWhere(ctx, "correlations", query); err != nil {
		return fmt.Errorf("failed to delete correlations: %w", err)
	}

	if len(correlations) == 0 {
		return nil
	}

	// PostgREST requires all objects to have the same keys for bulk insert.
	data := make([]map[string]interface{}, len(correlations))
	for i, c := range correlations {
		data[i] = map[string]interface{}{
			"user_id":           c.UserID,
			"symptom":           c.Symptom,
			"trigger":           c.Trigger,
			"correlation_score": c.CorrelationScore,
			"sample_size":       c.SampleSize,
			"computed_at":       c.ComputedAt,
		}
	}

	if _, err := r.client.Insert(ctx, "correlations", data); err != nil {
		return fmt.Errorf("failed to insert correlations: %w", err)
	}

	return nil
}

func (r *correlationRepository) GetByUserID(ctx context.Context, userID string) ([]models.Correlation, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "*",
		"order":   "correlation_score.desc",
	}

	body, err := r.client.Query(ctx, "correlations", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get correlations: %w", err)
	}

	var correlations []models.Correlation
	if err := json.Unmarshal(body, &correlations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return correlations, nil
}
