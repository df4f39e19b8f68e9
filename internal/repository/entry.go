package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voicehealth/backend/internal/models"
	"github.com/voicehealth/backend/pkg/supabase"
)

type entryRepository struct {
	client *supabase.Client
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(client *supabase.Client) EntryRepository {
	return &entryRepository{client: client}
}

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	data := map[string]interface{}{
		"user_id":            entry.UserID,
		"symptoms":           entry.Symptoms,
		"potential_triggers": entry.PotentialTriggers,
		"body_location":      entry.BodyLocation,
		"logged_at":          entry.LoggedAt,
	}
	if entry.RawTranscript != nil {
		data["raw_transcript"] = *entry.RawTranscript
	}
	if entry.Severity != nil {
		data["severity"] = *entry.Severity
	}
	if entry.Mood != nil {
		data["mood"] = *entry.Mood
	}
	if entry.TimeContext != nil {
		data["time_context"] = *entry.TimeContext
	}
	if entry.Notes != nil {
		data["notes"] = *entry.Notes
	}

	body, err := r.client.Insert(ctx, "entries", data)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	var entries []models.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entry returned")
	}

	return &entries[0], nil
}

func (r *entryRepository) GetByUserID(ctx context.Context, userID string) ([]models.Entry, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "*",
		"order":   "logged_at.asc",
	}

	body, err := r.client.Query(ctx, "entries", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	var entries []models.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return entries, nil
}

func (r *entryRepository) GetRecentByUser(ctx context.Context, userID string, limit, offset int) ([]models.Entry, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "*",
		"order":   "logged_at.desc",
		"limit":   limit,
		"offset":  offset,
	}

	body, err := r.client.Query(ctx, "entries", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent entries: %w", err)
	}

	var entries []models.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return entries, nil
}

func (r *entryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "id",
	}

	count, err := r.client.Count(ctx, "entries", query)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return count, nil
}
