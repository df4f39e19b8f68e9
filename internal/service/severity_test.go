package service

import (
	"math"
	"testing"
	"time"

	"github.com/voicehealth/backend/internal/models"
)

func severityEntry(offset time.Duration, symptom string, severity int) models.Entry {
	e := logEntry(offset, []string{symptom}, nil)
	e.Severity = intPtr(severity)
	return e
}

func TestComputeSeverityTrends_Worsening(t *testing.T) {
	// Migraine severity climbing 2 points per day: slope 1/12 per hour.
	entries := []models.Entry{
		severityEntry(0, "migraine", 2),
		severityEntry(24*time.Hour, "migraine", 4),
		severityEntry(48*time.Hour, "migraine", 6),
		severityEntry(72*time.Hour, "migraine", 8),
		severityEntry(96*time.Hour, "migraine", 10),
	}

	trends := ComputeSeverityTrends(entries)
	if len(trends) != 1 {
		t.Fatalf("expected 1 trend, got %d: %+v", len(trends), trends)
	}

	got := trends[0]
	if got.Symptom != "migraine" || got.Trend != models.TrendWorsening {
		t.Errorf("expected worsening migraine, got %+v", got)
	}
	if math.Abs(got.Slope-0.08333) > 1e-9 {
		t.Errorf("expected slope 0.08333, got %v", got.Slope)
	}
	if got.DataPoints != 5 {
		t.Errorf("expected 5 data points, got %d", got.DataPoints)
	}
}

func TestComputeSeverityTrends_Improving(t *testing.T) {
	entries := []models.Entry{
		severityEntry(0, "back pain", 9),
		severityEntry(24*time.Hour, "back pain", 7),
		severityEntry(48*time.Hour, "back pain", 5),
		severityEntry(72*time.Hour, "back pain", 3),
		severityEntry(96*time.Hour, "back pain", 1),
	}

	trends := ComputeSeverityTrends(entries)
	if len(trends) != 1 {
		t.Fatalf("expected 1 trend, got %d: %+v", len(trends), trends)
	}
	if got := trends[0]; got.Trend != models.TrendImproving || got.Slope >= 0 {
		t.Errorf("expected improving trend with negative slope, got %+v", got)
	}
}

func TestComputeSeverityTrends_FlatIsStable(t *testing.T) {
	// A one-point rise over 40 days fits a slope well inside the stable
	// band around zero.
	entries := []models.Entry{
		severityEntry(0, "joint pain", 5),
		severityEntry(240*time.Hour, "joint pain", 5),
		severityEntry(480*time.Hour, "joint pain", 5),
		severityEntry(720*time.Hour, "joint pain", 5),
		severityEntry(960*time.Hour, "joint pain", 6),
	}

	trends := ComputeSeverityTrends(entries)
	if len(trends) != 1 {
		t.Fatalf("expected 1 trend, got %d: %+v", len(trends), trends)
	}
	if got := trends[0]; got.Trend != models.TrendStable {
		t.Errorf("expected stable trend, got %+v", got)
	}
}

func TestComputeSeverityTrends_DegenerateTimestamps(t *testing.T) {
	// All points at the same instant: the fit has no time spread, so the
	// slope is defined as 0 and the trend is stable.
	entries := make([]models.Entry, 0, 5)
	for i := 0; i < 5; i++ {
		entries = append(entries, severityEntry(0, "migraine", i+1))
	}

	trends := ComputeSeverityTrends(entries)
	if len(trends) != 1 {
		t.Fatalf("expected 1 trend, got %d: %+v", len(trends), trends)
	}
	if got := trends[0]; got.Trend != models.TrendStable || got.Slope != 0 {
		t.Errorf("expected stable trend with slope 0, got %+v", got)
	}
}

func TestComputeSeverityTrends_BelowPointFloor(t *testing.T) {
	entries := []models.Entry{
		severityEntry(0, "migraine", 2),
		severityEntry(24*time.Hour, "migraine", 4),
		severityEntry(48*time.Hour, "migraine", 6),
		severityEntry(72*time.Hour, "migraine", 8),
	}

	if trends := ComputeSeverityTrends(entries); len(trends) != 0 {
		t.Errorf("four points should be below the floor, got %+v", trends)
	}
}

func TestComputeSeverityTrends_SkipsEntriesWithoutSeverity(t *testing.T) {
	// Entries missing a severity contribute nothing, even when they list
	// the symptom.
	entries := []models.Entry{
		severityEntry(0, "migraine", 2),
		logEntry(12*time.Hour, []string{"migraine"}, nil),
		severityEntry(24*time.Hour, "migraine", 4),
		severityEntry(48*time.Hour, "migraine", 6),
		severityEntry(72*time.Hour, "migraine", 8),
	}

	if trends := ComputeSeverityTrends(entries); len(trends) != 0 {
		t.Errorf("only four usable points, expected no trend, got %+v", trends)
	}
}
