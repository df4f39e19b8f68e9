package service

import (
	"context"
	"sort"
	"time"

	"github.com/voicehealth/backend/internal/models"
)

// testOrigin is a Monday morning; day-of-week assertions count from it.
var testOrigin = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

func intPtr(v int) *int {
	return &v
}

func strPtr(s string) *string {
	return &s
}

// logEntry builds a minimal entry at an offset from testOrigin.
func logEntry(offset time.Duration, symptoms, triggers []string) models.Entry {
	return models.Entry{
		UserID:            "user-123",
		Symptoms:          symptoms,
		PotentialTriggers: triggers,
		LoggedAt:          testOrigin.Add(offset),
	}
}

// sortChronologically enforces the engine's ascending-LoggedAt precondition
// on fixtures assembled out of order.
func sortChronologically(entries []models.Entry) []models.Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LoggedAt.Before(entries[j].LoggedAt)
	})
	return entries
}

// mockEntryRepository is an in-memory EntryRepository for testing
type mockEntryRepository struct {
	entries    []models.Entry // kept ascending by LoggedAt
	getCalls   int
	countCalls int
	lastLimit  int
	lastOffset int
}

func (m *mockEntryRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	m.entries = append(m.entries, *entry)
	sortChronologically(m.entries)
	return entry, nil
}

func (m *mockEntryRepository) GetByUserID(ctx context.Context, userID string) ([]models.Entry, error) {
	m.getCalls++
	result := make([]models.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockEntryRepository) GetRecentByUser(ctx context.Context, userID string, limit, offset int) ([]models.Entry, error) {
	m.lastLimit = limit
	m.lastOffset = offset
	all := make([]models.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.UserID == userID {
			all = append(all, e)
		}
	}
	result := make([]models.Entry, 0, limit)
	for i := len(all) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		result = append(result, all[i])
	}
	return result, nil
}

func (m *mockEntryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	m.countCalls++
	var count int64
	for _, e := range m.entries {
		if e.UserID == userID {
			count++
		}
	}
	return count, nil
}

// mockCorrelationRepository records ReplaceForUser calls
type mockCorrelationRepository struct {
	stored       map[string][]models.Correlation
	replaceCalls int
}

func newMockCorrelationRepository() *mockCorrelationRepository {
	return &mockCorrelationRepository{stored: make(map[string][]models.Correlation)}
}

func (m *mockCorrelationRepository) ReplaceForUser(ctx context.Context, userID string, correlations []models.Correlation) error {
	m.replaceCalls++
	m.stored[userID] = correlations
	return nil
}

func (m *mockCorrelationRepository) GetByUserID(ctx context.Context, userID string) ([]models.Correlation, error) {
	return m.stored[userID], nil
}

// mockSnapshotRepository is an in-memory StatsSnapshotRepository
type mockSnapshotRepository struct {
	snapshots map[string][]models.StatsSnapshot
	saveCalls int
}

func newMockSnapshotRepository() *mockSnapshotRepository {
	return &mockSnapshotRepository{snapshots: make(map[string][]models.StatsSnapshot)}
}

func (m *mockSnapshotRepository) Save(ctx context.Context, snapshot *models.StatsSnapshot) error {
	m.saveCalls++
	m.snapshots[snapshot.UserID] = append(m.snapshots[snapshot.UserID], *snapshot)
	return nil
}

func (m *mockSnapshotRepository) GetLatest(ctx context.Context, userID string) (*models.StatsSnapshot, error) {
	stored := m.snapshots[userID]
	if len(stored) == 0 {
		return nil, nil
	}
	latest := stored[len(stored)-1]
	return &latest, nil
}

func (m *mockSnapshotRepository) DeleteByUserID(ctx context.Context, userID string) error {
	delete(m.snapshots, userID)
	return nil
}
