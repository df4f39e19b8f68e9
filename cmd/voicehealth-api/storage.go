package main

import (
	"fmt"

	"github.com/voicehealth/backend/internal/config"
	"github.com/voicehealth/backend/internal/repository"
	"github.com/voicehealth/backend/internal/repository/sqlite"
	"github.com/voicehealth/backend/pkg/supabase"
)

// repositories bundles the storage layer behind whichever driver the
// configuration selected.
type repositories struct {
	Users          repository.UserRepository
	Entries        repository.EntryRepository
	Correlations   repository.CorrelationRepository
	StatsSnapshots repository.StatsSnapshotRepository

	// Supabase is nil when running on the sqlite driver.
	Supabase *supabase.Client

	close func() error
}

// Close releases any underlying storage handles.
func (r *repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

func buildRepositories(cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return &repositories{
			Users:          sqlite.NewUserRepository(db),
			Entries:        sqlite.NewEntryRepository(db),
			Correlations:   sqlite.NewCorrelationRepository(db),
			StatsSnapshots: sqlite.NewStatsSnapshotRepository(db),
			close:          db.Close,
		}, nil

	case config.DriverSupabase:
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		return &repositories{
			Users:          repository.NewUserRepository(client),
			Entries:        repository.NewEntryRepository(client),
			Correlations:   repository.NewCorrelationRepository(client),
			StatsSnapshots: repository.NewStatsSnapshotRepository(client),
			Supabase:       client,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
