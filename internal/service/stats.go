package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/voicehealth/backend/internal/models"
	"github.com/voicehealth/backend/internal/repository"
)

// Significance floors and gating thresholds. These are policy, shared with
// the dashboard's expectations, not tuning knobs.
const (
	// MinEntriesForStats gates the whole report; below it no analyzer runs
	// and the insufficient-data variant is returned instead.
	MinEntriesForStats = 5

	// TriggerLookback bounds how far back a trigger may precede a symptom
	// occurrence. An earlier entry counts only when strictly inside it.
	TriggerLookback = 24 * time.Hour

	// MinSymptomOccurrences is the floor for a symptom to enter the
	// correlation analysis at all.
	MinSymptomOccurrences = 5

	// MinPairCooccurrences is the floor for a (symptom, trigger) pair.
	MinPairCooccurrences = 3

	// MinCorrelationScore is the minimum rounded score that is surfaced.
	MinCorrelationScore = 0.40

	// MinPatternOccurrences is the floor for temporal clustering.
	MinPatternOccurrences = 4

	// PatternShareFloor must be strictly exceeded on at least one axis for
	// a temporal pattern to be reported.
	PatternShareFloor = 0.50

	// PeakFieldShareFloor must be strictly exceeded for peak_day or
	// peak_time to be populated on a reported pattern.
	PeakFieldShareFloor = 0.40

	// MinTrendPoints is the minimum (elapsed, severity) pairs per symptom
	// for a trend line to be fitted.
	MinTrendPoints = 5

	// TrendSlopeFloor separates worsening/improving from stable.
	TrendSlopeFloor = 0.005

	// MaxFrequencyResults caps the symptom frequency ranking.
	MaxFrequencyResults = 5
)

// InsufficientDataMessage is the message on the gated report variant.
const InsufficientDataMessage = "Insufficient data"

// ComputeSymptomFrequency counts every symptom occurrence across the
// history and returns the top MaxFrequencyResults as name/value pairs,
// sorted by count descending (ties keep first-occurrence order).
func ComputeSymptomFrequency(entries []models.Entry) []models.SymptomCount {
	counts := newOrderedCounter()
	for _, entry := range entries {
		for _, symptom := range entry.Symptoms {
			counts.Inc(symptom)
		}
	}

	results := make([]models.SymptomCount, 0, counts.Len())
	for _, name := range counts.Keys() {
		results = append(results, models.SymptomCount{Name: name, Value: counts.Count(name)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Value > results[j].Value
	})
	if len(results) > MaxFrequencyResults {
		results = results[:MaxFrequencyResults]
	}
	return results
}

// ComputeAllStats runs the analyzers over one user's history and assembles
// the combined report. Exactly one of the two results is non-nil: the full
// report, or the insufficient-data variant when the gate is not met. The
// analyzers are not invoked at all for a gated history — callers rely on
// the presence of the analyzer keys to tell "not enough data" apart from
// "no patterns found".
//
// The entries must be sorted ascending by LoggedAt.
func ComputeAllStats(entries []models.Entry) (*models.StatsReport, *models.InsufficientData) {
	if len(entries) == 0 {
		return nil, &models.InsufficientData{Message: InsufficientDataMessage}
	}

	days := dateRangeDays(entries)
	if len(entries) < MinEntriesForStats {
		return nil, &models.InsufficientData{
			Message:       InsufficientDataMessage,
			TotalEntries:  len(entries),
			DateRangeDays: &days,
		}
	}

	return &models.StatsReport{
		TriggerCorrelations: ComputeTriggerCorrelations(entries),
		TemporalPatterns:    ComputeTemporalPatterns(entries),
		SeverityTrends:      ComputeSeverityTrends(entries),
		SymptomFrequency:    ComputeSymptomFrequency(entries),
		TotalEntries:        len(entries),
		DateRangeDays:       days,
	}, nil
}

// dateRangeDays is the whole-day span between the first and last entry.
func dateRangeDays(entries []models.Entry) int {
	if len(entries) < 2 {
		return 0
	}
	return int(entries[len(entries)-1].LoggedAt.Sub(entries[0].LoggedAt) / (24 * time.Hour))
}

type statsService struct {
	entryRepo       repository.EntryRepository
	correlationRepo repository.CorrelationRepository
	snapshotRepo    repository.StatsSnapshotRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	entryRepo repository.EntryRepository,
	correlationRepo repository.CorrelationRepository,
	snapshotRepo repository.StatsSnapshotRepository,
) StatsService {
	return &statsService{
		entryRepo:       entryRepo,
		correlationRepo: correlationRepo,
		snapshotRepo:    snapshotRepo,
	}
}

// GetUserStats returns the stats report for a user, reusing the latest
// snapshot while the user's entry count is unchanged since it was computed.
func (s *statsService) GetUserStats(ctx context.Context, userID string) (*models.StatsReport, *models.InsufficientData, error) {
	count, err := s.entryRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count entries: %w", err)
	}

	snapshot, err := s.snapshotRepo.GetLatest(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get stats snapshot: %w", err)
	}
	if snapshot != nil && int64(snapshot.EntryCountAtComputation) == count {
		var report models.StatsReport
		if err := json.Unmarshal(snapshot.Report, &report); err == nil {
			return &report, nil, nil
		}
		// An unreadable snapshot falls through to recomputation.
	}

	return s.compute(ctx, userID)
}

// RefreshStats recomputes the report unconditionally.
func (s *statsService) RefreshStats(ctx context.Context, userID string) (*models.StatsReport, *models.InsufficientData, error) {
	return s.compute(ctx, userID)
}

func (s *statsService) compute(ctx context.Context, userID string) (*models.StatsReport, *models.InsufficientData, error) {
	entries, err := s.entryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get entries: %w", err)
	}

	report, insufficient := ComputeAllStats(entries)
	if report == nil {
		// Gated results are never cached; the next call re-evaluates.
		return nil, insufficient, nil
	}

	now := time.Now()
	correlations := make([]models.Correlation, 0, len(report.TriggerCorrelations))
	for _, tc := range report.TriggerCorrelations {
		correlations = append(correlations, models.Correlation{
			UserID:           userID,
			Symptom:          tc.Symptom,
			Trigger:          tc.Trigger,
			CorrelationScore: tc.Score,
			SampleSize:       tc.SampleSize,
			ComputedAt:       now,
		})
	}
	if err := s.correlationRepo.ReplaceForUser(ctx, userID, correlations); err != nil {
		return nil, nil, fmt.Errorf("failed to store correlations: %w", err)
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode report: %w", err)
	}
	if err := s.snapshotRepo.Save(ctx, &models.StatsSnapshot{
		UserID:                  userID,
		Report:                  payload,
		EntryCountAtComputation: report.TotalEntries,
		CreatedAt:               now,
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to store stats snapshot: %w", err)
	}

	return report, nil, nil
}
