package models

import (
	"encoding/json"
	"time"
)

// Trend classifies the direction of a severity trend line.
type Trend string

const (
	TrendWorsening Trend = "worsening"
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
)

// TriggerCorrelation is a trigger statistically associated with a symptom.
// Score is the fraction of the symptom's occurrences that had the trigger
// within the lookback window, rounded to 2 decimal places. SampleSize is
// the symptom's total occurrence count (the score's denominator).
type TriggerCorrelation struct {
	Symptom    string  `json:"symptom"`
	Trigger    string  `json:"trigger"`
	Score      float64 `json:"score"`
	SampleSize int     `json:"sample_size"`
}

// TemporalPattern reports that a symptom clusters on a particular day of
// week and/or time-of-day context. PeakDay and PeakTime are nil when that
// axis did not clear its share floor, even if the other one did.
type TemporalPattern struct {
	Symptom   string  `json:"symptom"`
	PeakDay   *string `json:"peak_day"`
	PeakTime  *string `json:"peak_time"`
	Frequency int     `json:"frequency"`
}

// SeverityTrend is the fitted severity-over-time line for one symptom.
// Slope is severity points per elapsed hour, rounded to 5 decimal places.
type SeverityTrend struct {
	Symptom    string  `json:"symptom"`
	Trend      Trend   `json:"trend"`
	Slope      float64 `json:"slope"`
	DataPoints int     `json:"data_points"`
}

// SymptomCount is a simple name/value frequency pair for chart rankings.
type SymptomCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// StatsReport is the combined analyzer output for one user's history.
// The analyzer lists are always present (possibly empty) so that callers
// can distinguish "no patterns found" from the gated insufficient-data
// response, which omits them entirely.
type StatsReport struct {
	TriggerCorrelations []TriggerCorrelation `json:"trigger_correlations"`
	TemporalPatterns    []TemporalPattern    `json:"temporal_patterns"`
	SeverityTrends      []SeverityTrend      `json:"severity_trends"`
	SymptomFrequency    []SymptomCount       `json:"symptom_frequency"`
	TotalEntries        int                  `json:"total_entries"`
	DateRangeDays       int                  `json:"date_range_days"`
}

// InsufficientData is returned instead of a StatsReport when the history
// is too small to analyze. DateRangeDays is nil for an empty history.
type InsufficientData struct {
	Message       string `json:"message"`
	TotalEntries  int    `json:"total_entries"`
	DateRangeDays *int   `json:"date_range_days,omitempty"`
}

// Correlation is a persisted trigger-symptom association row. The stored
// set is replaced wholesale on every stats computation.
type Correlation struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Symptom          string    `json:"symptom"`
	Trigger          string    `json:"trigger"`
	CorrelationScore float64   `json:"correlation_score"`
	SampleSize       int       `json:"sample_size"`
	ComputedAt       time.Time `json:"computed_at"`
}

// StatsSnapshot caches a computed report together with the entry count at
// computation time; the snapshot is valid while the count is unchanged.
// Report is raw JSON so the jsonb column round-trips without re-encoding.
type StatsSnapshot struct {
	ID                      string          `json:"id"`
	UserID                  string          `json:"user_id"`
	Report                  json.RawMessage `json:"report"`
	EntryCountAtComputation int             `json:"entry_count_at_computation"`
	CreatedAt               time.Time       `json:"created_at"`
}
