package service

import (
	"context"

	"github.com/voicehealth/backend/internal/models"
)

// EntryService defines the interface for entry business logic
type EntryService interface {
	CreateEntry(ctx context.Context, userID string, req *models.CreateEntryRequest) (*models.Entry, error)
	GetUserEntries(ctx context.Context, userID string, limit, offset int) ([]models.Entry, error)
}

// StatsService defines the interface for the pattern analysis engine.
// Exactly one of the report / insufficient-data results is non-nil on a
// successful call.
type StatsService interface {
	GetUserStats(ctx context.Context, userID string) (*models.StatsReport, *models.InsufficientData, error)
	RefreshStats(ctx context.Context, userID string) (*models.StatsReport, *models.InsufficientData, error)
}
