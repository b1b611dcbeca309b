package container

import (
	"context"
	"fmt"
	"time"

	"catalog-backend/internal/config"
	authorHandler "catalog-backend/internal/domains/author/handler"
	authorRepo "catalog-backend/internal/domains/author/repository"
	authorService "catalog-backend/internal/domains/author/service"
	infraCache "catalog-backend/internal/infrastructure/cache"
	"catalog-backend/internal/infrastructure/database"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/logger"

	"github.com/rs/zerolog/log"
)

// Container holds the application's dependency graph.
type Container struct {
	// Infrastructure
	Config *config.Config
	DB     *database.PostgresDB // nil with memory storage
	Cache  cache.Cache          // nil when Redis is disabled

	// Repositories
	AuthorRepo authorRepo.RepositoryInterface

	// Services
	AuthorService authorService.ServiceInterface

	// Handlers
	AuthorHandler *authorHandler.AuthorHandler

	monitorCancel context.CancelFunc
}

// NewContainer builds everything in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Msg("Initializing DI container...")

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("DI container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
		"storage":     cfg.App.Storage,
		"cache":       c.Cache != nil,
	})
	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	if cfg.App.Storage == config.StoragePostgres {
		db := database.NewPostgresDB(cfg.Database)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := db.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db

		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		monitorCtx, monitorCancel := context.WithCancel(context.Background())
		c.monitorCancel = monitorCancel
		go db.MonitorPoolHealth(monitorCtx, time.Minute)
	}

	// Only the Postgres repository reads through the cache.
	if cfg.Redis.Enabled && c.DB != nil {
		redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// non-critical: the repository logs and bypasses cache failures
		if err := redisCache.Connect(ctx); err != nil {
			logger.Error("Redis connection failed (non-critical)", err)
		}
		c.Cache = redisCache
	}

	return nil
}

func (c *Container) initRepositories() {
	if c.DB == nil {
		log.Warn().Msg("Using in-memory author storage; data is lost on restart")
		c.AuthorRepo = authorRepo.NewMemoryRepository()
		return
	}
	c.AuthorRepo = authorRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService, c.Config.App.Locale)
}

// Cleanup releases every resource the container opened. Safe to call on a
// partially built container.
func (c *Container) Cleanup() {
	logger.Debug("Cleaning up container resources...")

	if c.monitorCancel != nil {
		c.monitorCancel()
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("Failed to close database", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}

	log.Info().Msg("Container cleanup completed")
}
