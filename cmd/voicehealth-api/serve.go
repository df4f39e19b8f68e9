package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/voicehealth/backend/internal/config"
	"github.com/voicehealth/backend/internal/handlers"
	"github.com/voicehealth/backend/internal/logger"
	"github.com/voicehealth/backend/internal/middleware"
	"github.com/voicehealth/backend/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	log := logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
	})
	logger.SetDefault(log)

	log.Info("starting voicehealth api server",
		logger.String("env", cfg.Server.Env),
		logger.String("storage_driver", cfg.Storage.Driver),
	)

	repos, err := buildRepositories(cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	// The sqlite driver has no auth endpoint to fall back on, so local
	// token verification is mandatory there.
	if repos.Supabase == nil && cfg.Supabase.JWTSecret == "" {
		return fmt.Errorf("the sqlite driver requires SUPABASE_JWT_SECRET for authentication")
	}

	// Initialize services
	entryService := service.NewEntryService(repos.Entries)
	statsService := service.NewStatsService(repos.Entries, repos.Correlations, repos.StatsSnapshots)

	// Initialize handlers
	entryHandler := handlers.NewEntryHandler(entryService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Set Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(repos.Supabase, cfg.Supabase.JWTSecret))
	{
		v1.POST("/entries", entryHandler.CreateEntry)
		v1.GET("/entries", entryHandler.GetEntries)

		v1.GET("/stats", statsHandler.GetStats)
		v1.POST("/stats/refresh", statsHandler.RefreshStats)
	}

	log.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
