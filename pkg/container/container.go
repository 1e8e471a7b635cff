// Package container wires the dependency graph. Initialization order
// matters: config first, then infrastructure, then repositories, services
// and handlers.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"artfolio-backend/internal/config"
	"artfolio-backend/internal/domains/content"
	contentHandler "artfolio-backend/internal/domains/content/handler"
	contentRepo "artfolio-backend/internal/domains/content/repository"
	contentService "artfolio-backend/internal/domains/content/service"
	infraCache "artfolio-backend/internal/infrastructure/cache"
	"artfolio-backend/internal/infrastructure/database"
	"artfolio-backend/internal/infrastructure/storage"
	"artfolio-backend/internal/infrastructure/templates"
	"artfolio-backend/pkg/cache"
	"artfolio-backend/pkg/jwt"
)

// Container holds every long-lived dependency of the application. All
// components are singletons built once at startup.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Storage    *storage.MinIOStorage
	Templates  *templates.Store
	JWTManager *jwt.Manager

	ContentRepo    content.Repository
	ContentService content.Service
	ContentHandler *contentHandler.ContentHandler
}

// NewContainer builds the full dependency graph. A failure in any required
// infrastructure aborts startup.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("config loaded")

	db := database.NewPostgresDB(&cfg.Database)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// Redis is a read-through cache for compiled sites; losing it degrades
	// reads to object storage, so a failed connection is not fatal.
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("redis connection failed, compiled site cache disabled")
		} else {
			log.Info().Msg("redis connected")
		}
	}
	c.Cache = redisCache

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minioStorage
	log.Info().Str("bucket", cfg.MinIO.Bucket).Msg("object storage ready")

	c.Templates = templates.NewStore(cfg.Templates.Dir)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	c.ContentRepo = contentRepo.NewPostgresRepository(db.Pool)
	c.ContentService = contentService.NewContentService(c.ContentRepo, c.Storage, c.Cache)
	c.ContentHandler = contentHandler.NewContentHandler(c.ContentService, c.Templates)

	log.Info().Msg("container initialized")
	return c, nil
}

// Cleanup releases infrastructure resources during shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close redis client")
			}
		}
	}
}
