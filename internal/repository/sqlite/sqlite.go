// Package sqlite backs the repository interfaces with a local SQLite file,
// used for development and seeding without a Supabase project. Label arrays
// are stored as JSON text; timestamps as RFC 3339 text.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL REFERENCES users(id),
	raw_transcript     TEXT,
	symptoms           TEXT NOT NULL DEFAULT '[]',
	severity           INTEGER,
	potential_triggers TEXT NOT NULL DEFAULT '[]',
	mood               TEXT,
	body_location      TEXT NOT NULL DEFAULT '[]',
	time_context       TEXT,
	notes              TEXT,
	logged_at          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_user_logged ON entries(user_id, logged_at);

CREATE TABLE IF NOT EXISTS correlations (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL REFERENCES users(id),
	symptom           TEXT NOT NULL,
	"trigger"         TEXT NOT NULL,
	correlation_score REAL NOT NULL,
	sample_size       INTEGER NOT NULL,
	computed_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_correlations_user ON correlations(user_id);

CREATE TABLE IF NOT EXISTS stats_snapshots (
	id                         TEXT PRIMARY KEY,
	user_id                    TEXT NOT NULL REFERENCES users(id),
	report                     TEXT NOT NULL,
	entry_count_at_computation INTEGER NOT NULL,
	created_at                 TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_user_created ON stats_snapshots(user_id, created_at);
`

// Open opens (or creates) the database file and applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}

func encodeLabels(labels []string) string {
	if labels == nil {
		labels = []string{}
	}
	data, _ := json.Marshal(labels)
	return string(data)
}

func decodeLabels(raw string) ([]string, error) {
	var labels []string
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		return nil, fmt.Errorf("bad label array %q: %w", raw, err)
	}
	return labels, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", raw, err)
	}
	return t, nil
}

func nullableString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
