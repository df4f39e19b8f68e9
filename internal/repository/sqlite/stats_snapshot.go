package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/voicehealth/backend/internal/models"
	"github.com/voicehealth/backend/internal/repository"
)

type statsSnapshotRepository struct {
	db *sql.DB
}

// NewStatsSnapshotRepository creates a SQLite-backed stats snapshot repository
func NewStatsSnapshotRepository(db *sql.DB) repository.StatsSnapshotRepository {
	return &statsSnapshotRepository{db: db}
}

func (r *statsSnapshotRepository) Save(ctx context.Context, snapshot *models.StatsSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stats_snapshots
			(id, user_id, report, entry_count_at_computation, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), snapshot.UserID, string(snapshot.Report),
		snapshot.EntryCountAtComputation, encodeTime(snapshot.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save stats snapshot: %w", err)
	}
	return nil
}

func (r *statsSnapshotRepository) GetLatest(ctx context.Context, userID string) (*models.StatsSnapshot, error) {
	var (
		snapshot  models.StatsSnapshot
		report    string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, report, entry_count_at_computation, created_at
		FROM stats_snapshots WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 1`, userID).
		Scan(&snapshot.ID, &snapshot.UserID, &report,
			&snapshot.EntryCountAtComputation, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats snapshot: %w", err)
	}

	snapshot.Report = []byte(report)
	if snapshot.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *statsSnapshotRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM stats_snapshots WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete stats snapshots: %w", err)
	}
	return nil
}
