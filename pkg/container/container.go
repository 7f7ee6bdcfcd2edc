package container

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"blog-api/internal/config"
	blogHandler "blog-api/internal/domains/blog/handler"
	blogRepo "blog-api/internal/domains/blog/repository"
	blogService "blog-api/internal/domains/blog/service"
	infraCache "blog-api/internal/infrastructure/cache"
	"blog-api/internal/infrastructure/database"
	"blog-api/internal/shared/middleware"
	"blog-api/pkg/cache"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Thứ tự khởi tạo: Config -> Infrastructure -> Repositories -> Services -> Handlers
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config   *config.Config
	DB       *database.PostgresDB
	Redis    *infraCache.RedisClient // nil khi REDIS_ENABLED=false
	Cache    cache.Cache
	Registry *prometheus.Registry
	Metrics  *middleware.HTTPMetrics

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================
	UserRepo    blogRepo.UserRepositoryInterface
	ArticleRepo blogRepo.ArticleRepositoryInterface

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================
	UserService    blogService.UserServiceInterface
	ArticleService blogService.ArticleServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	UserHandler    *blogHandler.UserHandler
	ArticleHandler *blogHandler.ArticleHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Msg("Initializing DI Container...")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE + MIGRATIONS
	// ========================================
	if cfg.Migration.AutoMigrate {
		if err := database.RunMigrations(cfg.Database.DSN()); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	db := database.NewPostgresDB(cfg.Database)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Info().Msg("Database connected")

	// ========================================
	// STEP 2: CACHE
	// ========================================
	c.initCache(ctx)

	// ========================================
	// STEP 3: METRICS
	// ========================================
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		database.NewPoolCollector(c.DB),
	)
	c.Metrics = middleware.NewHTTPMetrics(c.Registry)

	// ========================================
	// STEP 4-6: REPOSITORIES -> SERVICES -> HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI Container initialized successfully")
	return c, nil
}

// initCache - Redis lỗi không critical: log warning và chạy không cache
func (c *Container) initCache(ctx context.Context) {
	c.Cache = cache.Noop{}

	if !c.Config.Redis.Enabled {
		log.Info().Msg("Redis cache disabled")
		return
	}

	rc := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical), running without cache")
		_ = rc.Close()
		return
	}

	c.Redis = rc
	c.Cache = infraCache.NewRedisCache(rc.Client, "blog:")
}

func (c *Container) initRepositories() {
	ttl := c.Config.Redis.TTL
	c.UserRepo = blogRepo.NewUserRepository(c.DB.Pool, c.Cache, ttl)
	c.ArticleRepo = blogRepo.NewArticleRepository(c.DB.Pool, c.Cache, ttl)
}

func (c *Container) initServices() {
	c.UserService = blogService.NewUserService(c.DB.Pool, c.UserRepo, c.ArticleRepo)
	c.ArticleService = blogService.NewArticleService(c.DB.Pool, c.ArticleRepo, c.UserRepo)
}

func (c *Container) initHandlers() {
	opts := blogHandler.Options{
		BaseURL:      c.Config.App.BaseURL,
		ItemsPerPage: c.Config.Pagination.ItemsPerPage,
	}
	c.UserHandler = blogHandler.NewUserHandler(c.UserService, opts)
	c.ArticleHandler = blogHandler.NewArticleHandler(c.ArticleService, opts)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
