package container

import (
	"log/slog"

	"pdfslim/internal/compression"
	"pdfslim/internal/config"
	"pdfslim/internal/database"
	"pdfslim/internal/pdf"
	"pdfslim/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	config *config.Config
	db     *database.Database
	logger *slog.Logger

	// Services
	engine      *compression.Engine
	preferences *services.PreferencesService
	stats       *services.StatsService
	compress    *services.CompressService
}

// New creates a new dependency injection container
func New(cfg *config.Config, db *database.Database, logger *slog.Logger) *Container {
	c := &Container{
		config: cfg,
		db:     db,
		logger: logger,
	}

	c.initServices()
	return c
}

// initServices initializes all services with their dependencies
func (c *Container) initServices() {
	c.engine = compression.NewEngine(
		pdf.NewCodec(),
		pdf.NewRasterizer(),
		pdf.NewJPEGEncoder(),
		pdf.NewBuilder(),
		c.logger,
	)

	c.preferences = services.NewPreferencesService(c.db)
	c.stats = services.NewStatsService(c.db)
	c.compress = services.NewCompressService(c.config, c.engine, c.preferences, c.stats, c.db, c.logger)
}

// GetEngine returns the compression engine
func (c *Container) GetEngine() *compression.Engine {
	return c.engine
}

// GetCompressService returns the batch compression service
func (c *Container) GetCompressService() *services.CompressService {
	return c.compress
}

// GetPreferencesService returns the preferences service
func (c *Container) GetPreferencesService() *services.PreferencesService {
	return c.preferences
}

// GetStatsService returns the statistics service
func (c *Container) GetStatsService() *services.StatsService {
	return c.stats
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}
