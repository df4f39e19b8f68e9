package models

import "time"

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Entry represents one logged health observation. Entries are immutable
// once written; the analysis engine only ever reads them.
type Entry struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	RawTranscript     *string   `json:"raw_transcript,omitempty"`
	Symptoms          []string  `json:"symptoms"`
	Severity          *int      `json:"severity,omitempty"` // 1-10, nil means "not reported"
	PotentialTriggers []string  `json:"potential_triggers"`
	Mood              *string   `json:"mood,omitempty"`
	BodyLocation      []string  `json:"body_location,omitempty"`
	TimeContext       *string   `json:"time_context,omitempty"` // free-form label ("morning", "evening"), used verbatim
	Notes             *string   `json:"notes,omitempty"`
	LoggedAt          time.Time `json:"logged_at"`
}

// CreateEntryRequest represents the request to create an entry
type CreateEntryRequest struct {
	RawTranscript     *string    `json:"raw_transcript"`
	Symptoms          []string   `json:"symptoms"`
	Severity          *int       `json:"severity"`
	PotentialTriggers []string   `json:"potential_triggers"`
	Mood              *string    `json:"mood"`
	BodyLocation      []string   `json:"body_location"`
	TimeContext       *string    `json:"time_context"`
	Notes             *string    `json:"notes"`
	LoggedAt          *time.Time `json:"logged_at"`
}

// EntryPage is a paginated slice of a user's history, most recent first.
type EntryPage struct {
	Entries []Entry `json:"entries"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}
