package repository

import (
	"context"

	"github.com/voicehealth/backend/internal/models"
)

// EntryRepository defines the interface for log entry data access.
// GetByUserID returns the full history ascending by logged_at, the order
// the analysis engine requires; GetRecentByUser serves the paginated
// history view, most recent first.
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Entry, error)
	GetRecentByUser(ctx context.Context, userID string, limit, offset int) ([]models.Entry, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// UserRepository defines the interface for user data access. GetByID
// returns (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// CorrelationRepository persists computed trigger-symptom associations.
// ReplaceForUser swaps the user's stored set wholesale.
type CorrelationRepository interface {
	ReplaceForUser(ctx context.Context, userID string, correlations []models.Correlation) error
	GetByUserID(ctx context.Context, userID string) ([]models.Correlation, error)
}

// StatsSnapshotRepository caches computed stats reports. GetLatest returns
// (nil, nil) when the user has no snapshot yet.
type StatsSnapshotRepository interface {
	Save(ctx context.Context, snapshot *models.StatsSnapshot) error
	GetLatest(ctx context.Context, userID string) (*models.StatsSnapshot, error)
	DeleteByUserID(ctx context.Context, userID string) error
}
