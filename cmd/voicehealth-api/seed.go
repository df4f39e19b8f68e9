package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/voicehealth/backend/internal/config"
	"github.com/voicehealth/backend/internal/logger"
	"github.com/voicehealth/backend/internal/models"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo data",
	Long: `Populate storage with a demo user and a generated symptom history
containing discoverable patterns: a morning coffee/headache association,
Monday fatigue, and a slowly worsening migraine.`,
	RunE: runSeed,
}

var (
	seedUserID string
	seedDays   int
	seedValue  int64
)

func init() {
	seedCmd.Flags().StringVar(&seedUserID, "user", "00000000-0000-0000-0000-000000000001", "User ID to seed entries for")
	seedCmd.Flags().IntVar(&seedDays, "days", 45, "Number of days of history to generate")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 1, "Random seed, fixed for reproducible histories")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
	})
	logger.SetDefault(log)

	repos, err := buildRepositories(cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	ctx := context.Background()

	user, err := repos.Users.GetByID(ctx, seedUserID)
	if err != nil {
		return fmt.Errorf("failed to look up demo user: %w", err)
	}
	if user == nil {
		if _, err := repos.Users.Create(ctx, &models.User{
			ID:        seedUserID,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}
		log.Info("created demo user", logger.String("user_id", seedUserID))
	}

	rng := rand.New(rand.NewSource(seedValue))
	entries := generateHistory(rng, seedUserID, seedDays)

	for i := range entries {
		if _, err := repos.Entries.Create(ctx, &entries[i]); err != nil {
			return fmt.Errorf("failed to insert entry %d: %w", i, err)
		}
	}

	log.Info("seeded demo history",
		logger.String("user_id", seedUserID),
		logger.Int("entries", len(entries)),
		logger.Int("days", seedDays),
	)
	return nil
}

func strOf(s string) *string { return &s }
func intOf(v int) *int       { return &v }

// generateHistory builds an entry series ending today with three planted
// patterns the analysis engine should find: coffee preceding most morning
// headaches, fatigue clustering on Mondays, and migraine severity creeping
// upward over the whole span.
func generateHistory(rng *rand.Rand, userID string, days int) []models.Entry {
	var entries []models.Entry
	start := time.Now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	add := func(e models.Entry) {
		e.UserID = userID
		if e.Symptoms == nil {
			e.Symptoms = []string{}
		}
		if e.PotentialTriggers == nil {
			e.PotentialTriggers = []string{}
		}
		entries = append(entries, e)
	}

	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)

		// Morning coffee, usually followed by a headache.
		if rng.Float64() < 0.7 {
			add(models.Entry{
				PotentialTriggers: []string{"coffee"},
				TimeContext:       strOf("morning"),
				LoggedAt:          date.Add(7 * time.Hour),
			})
			if rng.Float64() < 0.8 {
				add(models.Entry{
					Symptoms:    []string{"headache"},
					Severity:    intOf(3 + rng.Intn(4)),
					TimeContext: strOf("morning"),
					LoggedAt:    date.Add(time.Duration(9+rng.Intn(2)) * time.Hour),
				})
			}
		}

		// Monday fatigue.
		if date.Weekday() == time.Monday && rng.Float64() < 0.85 {
			add(models.Entry{
				Symptoms:    []string{"fatigue"},
				Severity:    intOf(4 + rng.Intn(3)),
				Mood:        strOf("drained"),
				TimeContext: strOf("afternoon"),
				LoggedAt:    date.Add(15 * time.Hour),
			})
		}

		// Migraine every few days, severity climbing with the day index.
		if day%4 == 0 {
			severity := 2 + day/8
			if severity > 10 {
				severity = 10
			}
			add(models.Entry{
				Symptoms:     []string{"migraine"},
				Severity:     intOf(severity),
				BodyLocation: []string{"left temple"},
				TimeContext:  strOf("evening"),
				Notes:        strOf("throbbing, light sensitivity"),
				LoggedAt:     date.Add(20 * time.Hour),
			})
		}

		// Occasional noise so the data is not purely the patterns.
		if rng.Float64() < 0.25 {
			add(models.Entry{
				Symptoms:          []string{"nausea"},
				Severity:          intOf(1 + rng.Intn(5)),
				PotentialTriggers: []string{"dairy"},
				LoggedAt:          date.Add(time.Duration(12+rng.Intn(6)) * time.Hour),
			})
		}
	}

	return entries
}
