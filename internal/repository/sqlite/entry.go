package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/voicehealth/backend/internal/models"
	"github.com/voicehealth/backend/internal/repository"
)

type entryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a SQLite-backed entry repository
func NewEntryRepository(db *sql.DB) repository.EntryRepository {
	return &entryRepository{db: db}
}

const entryColumns = `id, user_id, raw_transcript, symptoms, severity,
	potential_triggers, mood, body_location, time_context, notes, logged_at`

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	created := *entry
	created.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID,
		created.UserID,
		nullableString(created.RawTranscript),
		encodeLabels(created.Symptoms),
		nullableInt(created.Severity),
		encodeLabels(created.PotentialTriggers),
		nullableString(created.Mood),
		encodeLabels(created.BodyLocation),
		nullableString(created.TimeContext),
		nullableString(created.Notes),
		encodeTime(created.LoggedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	return &created, nil
}

func (r *entryRepository) GetByUserID(ctx context.Context, userID string) ([]models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM entries WHERE user_id = ?
		ORDER BY logged_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *entryRepository) GetRecentByUser(ctx context.Context, userID string, limit, offset int) ([]models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM entries WHERE user_id = ?
		ORDER BY logged_at DESC
		LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *entryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

func scanEntries(rows *sql.Rows) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	for rows.Next() {
		var (
			entry         models.Entry
			rawTranscript sql.NullString
			symptoms      string
			severity      sql.NullInt64
			triggers      string
			mood          sql.NullString
			bodyLocation  string
			timeContext   sql.NullString
			notes         sql.NullString
			loggedAt      string
		)
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &rawTranscript, &symptoms, &severity,
			&triggers, &mood, &bodyLocation, &timeContext, &notes, &loggedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		var err error
		if entry.Symptoms, err = decodeLabels(symptoms); err != nil {
			return nil, err
		}
		if entry.PotentialTriggers, err = decodeLabels(triggers); err != nil {
			return nil, err
		}
		if entry.BodyLocation, err = decodeLabels(bodyLocation); err != nil {
			return nil, err
		}
		if entry.LoggedAt, err = decodeTime(loggedAt); err != nil {
			return nil, err
		}
		entry.RawTranscript = stringPtr(rawTranscript)
		entry.Severity = intPtr(severity)
		entry.Mood = stringPtr(mood)
		entry.TimeContext = stringPtr(timeContext)
		entry.Notes = stringPtr(notes)

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}
