package main

import (
	"github.com/openlabtools/labregistry/internal/config"
	"github.com/openlabtools/labregistry/internal/handlers"
	"github.com/openlabtools/labregistry/internal/models"
	"github.com/openlabtools/labregistry/internal/services"
	"github.com/openlabtools/labregistry/internal/utils"
	"github.com/openlabtools/labregistry/pkg/logger"
)

// appServices holds the initialized services and handlers shared across routes.
type appServices struct {
	workService *services.WorkService
	authHandler *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	// Start system log cleanup scheduler
	services.StartLogCleanupScheduler(models.GetDB(), cfg.Log.RetentionDays)

	// Create default admin user
	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	// A single work service so weekly hour updates for the same member
	// serialize on one lock table process-wide.
	workService := services.NewWorkService(models.GetDB())

	return &appServices{
		workService: workService,
		authHandler: authHandler,
	}
}

// shutdown gracefully stops all background schedulers.
func (s *appServices) shutdown() {
	services.StopLogCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")
}
