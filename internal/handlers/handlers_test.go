package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voicehealth/backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser simulates the auth middleware for handler tests.
func withUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// mockStatsService returns canned results and records calls
type mockStatsService struct {
	report       *models.StatsReport
	insufficient *models.InsufficientData
	err          error
	getCalls     int
	refreshCalls int
}

func (m *mockStatsService) GetUserStats(ctx context.Context, userID string) (*models.StatsReport, *models.InsufficientData, error) {
	m.getCalls++
	return m.report, m.insufficient, m.err
}

func (m *mockStatsService) RefreshStats(ctx context.Context, userID string) (*models.StatsReport, *models.InsufficientData, error) {
	m.refreshCalls++
	return m.report, m.insufficient, m.err
}

// mockEntryService echoes creations and records pagination arguments
type mockEntryService struct {
	entries    []models.Entry
	err        error
	lastLimit  int
	lastOffset int
}

func (m *mockEntryService) CreateEntry(ctx context.Context, userID string, req *models.CreateEntryRequest) (*models.Entry, error) {
	if m.err != nil {
		return nil, m.err
	}
	loggedAt := time.Now().UTC()
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}
	return &models.Entry{
		ID:                "entry-1",
		UserID:            userID,
		Symptoms:          req.Symptoms,
		Severity:          req.Severity,
		PotentialTriggers: req.PotentialTriggers,
		LoggedAt:          loggedAt,
	}, nil
}

func (m *mockEntryService) GetUserEntries(ctx context.Context, userID string, limit, offset int) ([]models.Entry, error) {
	m.lastLimit = limit
	m.lastOffset = offset
	return m.entries, m.err
}
