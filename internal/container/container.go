package container

import (
	"context"
	"log/slog"

	"biomas/internal/common"
	"biomas/internal/config"
	"biomas/internal/controller"
	"biomas/internal/database"
	"biomas/internal/domain/preferences"
	"biomas/internal/palette"

	"gorm.io/gorm"
)

// Container holds all dependencies for the application
type Container struct {
	config *config.Config
	db     *gorm.DB
	logger *slog.Logger

	registry   *palette.Registry
	store      preferences.Store
	controller *controller.Controller
}

// New creates a new dependency injection container. A nil db selects the
// in-memory store; preferences then last only for the session.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, emit common.EmitFunc) *Container {
	c := &Container{
		config: cfg,
		db:     db,
		logger: cfg.Logger,
	}

	c.initServices(ctx, emit)
	return c
}

// initServices initializes all services with their dependencies
func (c *Container) initServices(ctx context.Context, emit common.EmitFunc) {
	c.registry = palette.NewRegistry()
	c.store = newStore(c.db, c.config.StorageKey, c.logger)

	reporter := &saveFailureReporter{ctx: ctx, emit: emit}
	c.controller = controller.New(ctx, c.store, c.registry,
		controller.WithLogger(c.logger),
		controller.WithSaveHook(reporter.Report),
	)
}

// GetController returns the preference controller
func (c *Container) GetController() *controller.Controller {
	return c.controller
}

// GetRegistry returns the palette registry
func (c *Container) GetRegistry() *palette.Registry {
	return c.registry
}

// GetStore returns the preference store backing the controller
func (c *Container) GetStore() preferences.Store {
	return c.store
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// Close drains pending saves and closes the database
func (c *Container) Close(ctx context.Context) error {
	err := c.controller.Close(ctx)
	if err != nil {
		c.logger.Error("Failed to drain preference saves", "error", err)
	}

	if c.db != nil {
		if dbErr := database.Close(c.db); dbErr != nil {
			c.logger.Error("Failed to close database", "error", dbErr)
			if err == nil {
				err = dbErr
			}
		}
	}
	return err
}
