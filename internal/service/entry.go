package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/voicehealth/backend/internal/models"
	"github.com/voicehealth/backend/internal/repository"
)

// ErrSeverityOutOfRange is returned when a reported severity falls outside
// the 1-10 scale.
var ErrSeverityOutOfRange = errors.New("severity must be between 1 and 10")

// Pagination bounds for the history view.
const (
	DefaultEntryLimit = 20
	MaxEntryLimit     = 100
)

type entryService struct {
	entryRepo repository.EntryRepository
}

// NewEntryService creates a new entry service
func NewEntryService(entryRepo repository.EntryRepository) EntryService {
	return &entryService{
		entryRepo: entryRepo,
	}
}

// CreateEntry validates and stores a new log entry. This is the ingestion
// boundary: data passing it is assumed well-formed by the analysis engine.
func (s *entryService) CreateEntry(ctx context.Context, userID string, req *models.CreateEntryRequest) (*models.Entry, error) {
	if req.Severity != nil && (*req.Severity < 1 || *req.Severity > 10) {
		return nil, ErrSeverityOutOfRange
	}

	loggedAt := time.Now().UTC()
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}

	entry := &models.Entry{
		UserID:            userID,
		RawTranscript:     req.RawTranscript,
		Symptoms:          normalizeLabels(req.Symptoms),
		Severity:          req.Severity,
		PotentialTriggers: normalizeLabels(req.PotentialTriggers),
		Mood:              req.Mood,
		BodyLocation:      normalizeLabels(req.BodyLocation),
		TimeContext:       req.TimeContext,
		Notes:             req.Notes,
		LoggedAt:          loggedAt,
	}

	created, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	return created, nil
}

// GetUserEntries returns a page of the user's history, most recent first.
func (s *entryService) GetUserEntries(ctx context.Context, userID string, limit, offset int) ([]models.Entry, error) {
	if limit <= 0 {
		limit = DefaultEntryLimit
	}
	if limit > MaxEntryLimit {
		limit = MaxEntryLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.entryRepo.GetRecentByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	return entries, nil
}

// normalizeLabels trims whitespace and drops empty labels. The result is
// never nil so array columns never store null.
func normalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
