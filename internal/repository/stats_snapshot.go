package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voicehealth/backend/internal/models"
	"github.com/voicehealth/backend/pkg/supabase"
)

type statsSnapshotRepository struct {
	client *supabase.Client
}

// NewStatsSnapshotRepository creates a new stats snapshot repository
func NewStatsSnapshotRepository(client *supabase.Client) StatsSnapshotRepository {
	return &statsSnapshotRepository{client: client}
}

func (r *statsSnapshotRepository) Save(ctx context.Context, snapshot *models.StatsSnapshot) error {
	data := map[string]interface{}{
		"user_id":                    snapshot.UserID,
		"report":                     snapshot.Report,
		"entry_count_at_computation": snapshot.EntryCountAtComputation,
		"created_at":                 snapshot.CreatedAt,
	}

	if _, err := r.client.Insert(ctx, "stats_snapshots", data); err != nil {
		return fmt.Errorf("failed to save stats snapshot: %w", err)
	}

	return nil
}

func (r *statsSnapshotRepository) GetLatest(ctx context.Context, userID string) (*models.StatsSnapshot, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "*",
		"order":   "created_at.desc",
		"limit":   1,
	}

	body, err := r.client.Query(ctx, "stats_snapshots", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats snapshot: %w", err)
	}

	var snapshots []models.StatsSnapshot
	if err := json.Unmarshal(body, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, nil
	}

	return &snapshots[0], nil
}

func (r *statsSnapshotRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
	}

	if err := r.client.DeleteWhere(ctx, "stats_snapshots", query); err != nil {
		return fmt.Errorf("failed to delete stats snapshots: %w", err)
	}

	return nil
}
