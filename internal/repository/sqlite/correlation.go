package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/voicehealth/backend/internal/models"
	"github.com/voicehealth/backend/internal/repository"
)

type correlationRepository struct {
	db *sql.DB
}

// NewCorrelationRepository creates a SQLite-backed correlation repository
func NewCorrelationRepository(db *sql.DB) repository.CorrelationRepository {
	return &correlationRepository{db: db}
}

func (r *correlationRepository) ReplaceForUser(ctx context.Context, userID string, correlations []models.Correlation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM correlations WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete correlations: %w", err)
	}

	for _, c := range correlations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO correlations
				(id, user_id, symptom, "trigger", correlation_score, sample_size, computed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), c.UserID, c.Symptom, c.Trigger,
			c.CorrelationScore, c.SampleSize, encodeTime(c.ComputedAt),
		); err != nil {
			return fmt.Errorf("failed to insert correlation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit correlations: %w", err)
	}
	return nil
}

func (r *correlationRepository) GetByUserID(ctx context.Context, userID string) ([]models.Correlation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, symptom, "trigger", correlation_score, sample_size, computed_at
		FROM correlations WHERE user_id = ?
		ORDER BY correlation_score DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get correlations: %w", err)
	}
	defer rows.Close()

	correlations := make([]models.Correlation, 0)
	for rows.Next() {
		var (
			c          models.Correlation
			computedAt string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Symptom, &c.Trigger,
			&c.CorrelationScore, &c.SampleSize, &computedAt); err != nil {
			return nil, fmt.Errorf("failed to scan correlation: %w", err)
		}
		if c.ComputedAt, err = decodeTime(computedAt); err != nil {
			return nil, err
		}
		correlations = append(correlations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read correlations: %w", err)
	}
	return correlations, nil
}
