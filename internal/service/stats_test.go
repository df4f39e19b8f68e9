package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/voicehealth/backend/internal/models"
)

// richHistory is a fixture with enough structure to exercise all three
// analyzers: coffee preceding every headache, headaches clustered in the
// morning, and severities climbing over time.
func richHistory() []models.Entry {
	var entries []models.Entry
	for day := 0; day < 6; day++ {
		base := time.Duration(day) * 24 * time.Hour
		entries = append(entries, logEntry(base, nil, []string{"coffee"}))

		headache := logEntry(base+2*time.Hour, []string{"headache"}, nil)
		headache.Severity = intPtr(3 + day)
		headache.TimeContext = strPtr("morning")
		entries = append(entries, headache)
	}
	return entries
}

func TestComputeAllStats_EmptyHistory(t *testing.T) {
	report, insufficient := ComputeAllStats(nil)
	if report != nil {
		t.Fatalf("expected no report for empty history, got %+v", report)
	}
	if insufficient == nil {
		t.Fatal("expected insufficient-data result")
	}
	if insufficient.Message != InsufficientDataMessage || insufficient.TotalEntries != 0 {
		t.Errorf("unexpected insufficient-data result: %+v", insufficient)
	}
	if insufficient.DateRangeDays != nil {
		t.Errorf("expected nil date range for empty history, got %d", *insufficient.DateRangeDays)
	}
}

func TestComputeAllStats_BelowGate(t *testing.T) {
	entries := []models.Entry{
		logEntry(0, []string{"headache"}, nil),
		logEntry(20*time.Hour, []string{"headache"}, nil),
		logEntry(40*time.Hour, []string{"headache"}, nil),
		logEntry(70*time.Hour, []string{"headache"}, nil),
	}

	report, insufficient := ComputeAllStats(entries)
	if report != nil {
		t.Fatalf("expected no report below the gate, got %+v", report)
	}
	if insufficient == nil || insufficient.TotalEntries != 4 {
		t.Fatalf("unexpected insufficient-data result: %+v", insufficient)
	}
	if insufficient.DateRangeDays == nil || *insufficient.DateRangeDays != 2 {
		t.Errorf("expected date range of 2 whole days, got %v", insufficient.DateRangeDays)
	}
}

func TestComputeAllStats_NoPatternsStillReports(t *testing.T) {
	// Five entries clear the gate but carry nothing analyzable. The report
	// must come back with empty, non-nil analyzer lists so the encoded JSON
	// keeps every key.
	var entries []models.Entry
	for day := 0; day < 5; day++ {
		entries = append(entries, logEntry(time.Duration(day)*24*time.Hour, nil, nil))
	}

	report, insufficient := ComputeAllStats(entries)
	if insufficient != nil {
		t.Fatalf("expected a full report, got insufficient: %+v", insufficient)
	}
	if report.TotalEntries != 5 || report.DateRangeDays != 4 {
		t.Errorf("unexpected totals: %+v", report)
	}
	if report.TriggerCorrelations == nil || report.TemporalPatterns == nil ||
		report.SeverityTrends == nil || report.SymptomFrequency == nil {
		t.Error("analyzer lists must be non-nil even when empty")
	}
	if len(report.TriggerCorrelations) != 0 || len(report.TemporalPatterns) != 0 ||
		len(report.SeverityTrends) != 0 || len(report.SymptomFrequency) != 0 {
		t.Errorf("expected empty analyzer lists, got %+v", report)
	}
}

func TestComputeAllStats_Deterministic(t *testing.T) {
	entries := richHistory()

	first, insufficient := ComputeAllStats(entries)
	if insufficient != nil {
		t.Fatalf("expected a full report, got insufficient: %+v", insufficient)
	}
	second, _ := ComputeAllStats(entries)

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("failed to marshal report: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("failed to marshal report: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("same history produced different reports:\n%s\n%s", a, b)
	}
}

func TestComputeAllStats_RichHistory(t *testing.T) {
	report, insufficient := ComputeAllStats(richHistory())
	if insufficient != nil {
		t.Fatalf("expected a full report, got insufficient: %+v", insufficient)
	}

	if len(report.TriggerCorrelations) != 1 || report.TriggerCorrelations[0].Trigger != "coffee" {
		t.Errorf("expected a single coffee correlation, got %+v", report.TriggerCorrelations)
	}
	if len(report.TemporalPatterns) != 1 {
		t.Fatalf("expected 1 temporal pattern, got %+v", report.TemporalPatterns)
	}
	if pt := report.TemporalPatterns[0].PeakTime; pt == nil || *pt != "morning" {
		t.Errorf("expected morning peak time, got %v", pt)
	}
	if len(report.SeverityTrends) != 1 || report.SeverityTrends[0].Trend != models.TrendWorsening {
		t.Errorf("expected a worsening severity trend, got %+v", report.SeverityTrends)
	}
	if report.TotalEntries != 12 {
		t.Errorf("expected 12 total entries, got %d", report.TotalEntries)
	}
}

func TestComputeSymptomFrequency_TopFive(t *testing.T) {
	var entries []models.Entry
	counts := map[string]int{
		"headache": 6, "fatigue": 5, "nausea": 4,
		"dizziness": 3, "insomnia": 2, "back pain": 1,
	}
	for _, name := range []string{"headache", "fatigue", "nausea", "dizziness", "insomnia", "back pain"} {
		for i := 0; i < counts[name]; i++ {
			entries = append(entries, logEntry(time.Duration(len(entries))*time.Hour, []string{name}, nil))
		}
	}

	results := ComputeSymptomFrequency(entries)
	if len(results) != 5 {
		t.Fatalf("expected ranking capped at 5, got %d: %+v", len(results), results)
	}
	if results[0].Name != "headache" || results[0].Value != 6 {
		t.Errorf("expected headache first with 6, got %+v", results[0])
	}
	for _, r := range results {
		if r.Name == "back pain" {
			t.Error("sixth-ranked symptom should be cut from the ranking")
		}
	}
}

func newTestStatsService(entries []models.Entry) (StatsService, *mockEntryRepository, *mockCorrelationRepository, *mockSnapshotRepository) {
	entryRepo := &mockEntryRepository{entries: entries}
	correlationRepo := newMockCorrelationRepository()
	snapshotRepo := newMockSnapshotRepository()
	return NewStatsService(entryRepo, correlationRepo, snapshotRepo), entryRepo, correlationRepo, snapshotRepo
}

func TestStatsService_ComputesAndCaches(t *testing.T) {
	svc, entryRepo, correlationRepo, snapshotRepo := newTestStatsService(richHistory())
	ctx := context.Background()

	report, insufficient, err := svc.GetUserStats(ctx, "user-123")
	if err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}
	if insufficient != nil || report == nil {
		t.Fatalf("expected a full report, got report=%v insufficient=%v", report, insufficient)
	}
	if snapshotRepo.saveCalls != 1 {
		t.Errorf("expected 1 snapshot save, got %d", snapshotRepo.saveCalls)
	}
	if correlationRepo.replaceCalls != 1 || len(correlationRepo.stored["user-123"]) != 1 {
		t.Errorf("expected correlations replaced once, got %d calls, %+v",
			correlationRepo.replaceCalls, correlationRepo.stored["user-123"])
	}

	// Second read with an unchanged entry count serves the snapshot.
	cached, _, err := svc.GetUserStats(ctx, "user-123")
	if err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}
	if entryRepo.getCalls != 1 {
		t.Errorf("expected the cached read to skip history fetch, got %d fetches", entryRepo.getCalls)
	}
	if cached.TotalEntries != report.TotalEntries {
		t.Errorf("cached report diverged: %+v vs %+v", cached, report)
	}
}

func TestStatsService_RecomputesWhenCountChanges(t *testing.T) {
	svc, entryRepo, _, snapshotRepo := newTestStatsService(richHistory())
	ctx := context.Background()

	if _, _, err := svc.GetUserStats(ctx, "user-123"); err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}

	newEntry := logEntry(30*24*time.Hour, []string{"headache"}, nil)
	if _, err := entryRepo.Create(ctx, &newEntry); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	report, _, err := svc.GetUserStats(ctx, "user-123")
	if err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}
	if report.TotalEntries != 13 {
		t.Errorf("expected a recomputed report over 13 entries, got %d", report.TotalEntries)
	}
	if snapshotRepo.saveCalls != 2 {
		t.Errorf("expected a second snapshot save, got %d", snapshotRepo.saveCalls)
	}
}

func TestStatsService_RefreshBypassesSnapshot(t *testing.T) {
	svc, entryRepo, _, snapshotRepo := newTestStatsService(richHistory())
	ctx := context.Background()

	if _, _, err := svc.GetUserStats(ctx, "user-123"); err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}
	if _, _, err := svc.RefreshStats(ctx, "user-123"); err != nil {
		t.Fatalf("RefreshStats failed: %v", err)
	}

	if entryRepo.getCalls != 2 {
		t.Errorf("expected refresh to re-fetch history, got %d fetches", entryRepo.getCalls)
	}
	if snapshotRepo.saveCalls != 2 {
		t.Errorf("expected refresh to save a new snapshot, got %d", snapshotRepo.saveCalls)
	}
}

func TestStatsService_InsufficientDataNotCached(t *testing.T) {
	entries := []models.Entry{
		logEntry(0, []string{"headache"}, nil),
		logEntry(24*time.Hour, []string{"headache"}, nil),
	}
	svc, _, correlationRepo, snapshotRepo := newTestStatsService(entries)
	ctx := context.Background()

	report, insufficient, err := svc.GetUserStats(ctx, "user-123")
	if err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}
	if report != nil || insufficient == nil || insufficient.TotalEntries != 2 {
		t.Fatalf("expected insufficient-data result, got report=%v insufficient=%v", report, insufficient)
	}
	if snapshotRepo.saveCalls != 0 {
		t.Errorf("gated results must not be cached, got %d saves", snapshotRepo.saveCalls)
	}
	if correlationRepo.replaceCalls != 0 {
		t.Errorf("gated results must not touch stored correlations, got %d calls", correlationRepo.replaceCalls)
	}
}
