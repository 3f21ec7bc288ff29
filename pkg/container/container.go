package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"aic-hub-backend/internal/config"
	infraCache "aic-hub-backend/internal/infrastructure/cache"
	"aic-hub-backend/internal/infrastructure/database"
	"aic-hub-backend/internal/infrastructure/github"
	"aic-hub-backend/pkg/cache"
	"aic-hub-backend/pkg/logger"
	"aic-hub-backend/pkg/security"

	"aic-hub-backend/internal/domains/article"
	articleHandler "aic-hub-backend/internal/domains/article/handler"
	articleRepo "aic-hub-backend/internal/domains/article/repository"
	articleService "aic-hub-backend/internal/domains/article/service"
	"aic-hub-backend/internal/domains/auth"
	authHandler "aic-hub-backend/internal/domains/auth/handler"
	authJob "aic-hub-backend/internal/domains/auth/job"
	authRepo "aic-hub-backend/internal/domains/auth/repository"
	authService "aic-hub-backend/internal/domains/auth/service"
	"aic-hub-backend/internal/domains/feed"
	feedHandler "aic-hub-backend/internal/domains/feed/handler"
	feedJob "aic-hub-backend/internal/domains/feed/job"
	feedRepo "aic-hub-backend/internal/domains/feed/repository"
	feedService "aic-hub-backend/internal/domains/feed/service"
	"aic-hub-backend/internal/domains/search"
	searchHandler "aic-hub-backend/internal/domains/search/handler"
	searchJob "aic-hub-backend/internal/domains/search/job"
	searchRepo "aic-hub-backend/internal/domains/search/repository"
	searchService "aic-hub-backend/internal/domains/search/service"
	"aic-hub-backend/internal/domains/space"
	spaceHandler "aic-hub-backend/internal/domains/space/handler"
	spaceRepo "aic-hub-backend/internal/domains/space/repository"
	spaceService "aic-hub-backend/internal/domains/space/service"
	"aic-hub-backend/internal/domains/tag"
	tagHandler "aic-hub-backend/internal/domains/tag/handler"
	tagJob "aic-hub-backend/internal/domains/tag/job"
	tagRepo "aic-hub-backend/internal/domains/tag/repository"
	tagService "aic-hub-backend/internal/domains/tag/service"
	"aic-hub-backend/internal/domains/user"
	userHandler "aic-hub-backend/internal/domains/user/handler"
	userRepo "aic-hub-backend/internal/domains/user/repository"
	userService "aic-hub-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup, in dependency order: config,
// infrastructure, repositories, services, handlers.
type Container struct {
	Config *config.Config
	DB     *database.PostgresDB
	Redis  *infraCache.RedisClient
	Cache  cache.Cache
	Queue  *asynq.Client
	Tokens *security.TokenManager

	AuthRepo    auth.Repository
	UserRepo    user.Repository
	TagRepo     tag.Repository
	ArticleRepo article.Repository
	SpaceRepo   space.Repository
	SearchRepo  search.Repository
	FeedRepo    feed.Repository

	AuthService    auth.Service
	UserService    user.Service
	TagService     tag.Service
	ArticleService article.Service
	SpaceService   space.Service
	SearchService  search.Service
	FeedService    feed.Service

	AuthHandler    *authHandler.AuthHandler
	UserHandler    *userHandler.UserHandler
	TagHandler     *tagHandler.TagHandler
	ArticleHandler *articleHandler.ArticleHandler
	SpaceHandler   *spaceHandler.SpaceHandler
	SearchHandler  *searchHandler.SearchHandler
	FeedHandler    *feedHandler.FeedHandler

	AuthCleanupJob     *authJob.CleanupHandler
	ActivityCleanupJob *feedJob.CleanupHandler
	TagTrendingJob     *tagJob.TrendingHandler
	SearchReindexJob   *searchJob.ReindexHandler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	logger.Init(cfg.App.Environment)

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	c.initHandlers()
	c.initJobs()

	logger.Info("container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})
	return c, nil
}

func (c *Container) initInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := database.NewPostgresDB(&database.DBConfig{
		Host:              c.Config.Database.Host,
		Port:              c.Config.Database.Port,
		Username:          c.Config.Database.User,
		Password:          c.Config.Database.Password,
		DBName:            c.Config.Database.Database,
		MaxConns:          int32(c.Config.Database.MaxConns),
		MinConns:          int32(c.Config.Database.MinConns),
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
		MaxRetries:        5,
		RetryDelay:        time.Second,
		ConnectTimeout:    10 * time.Second,
	})
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	redis := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := redis.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Redis = redis
	c.Cache = infraCache.NewRedisCache(redis.Client)

	c.Queue = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})

	c.Tokens = security.NewTokenManager(c.Config.Session.Secret, time.Duration(c.Config.Session.MaxAge)*time.Second)
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool
	c.AuthRepo = authRepo.NewPostgresRepository(pool)
	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.TagRepo = tagRepo.NewPostgresRepository(pool)
	c.ArticleRepo = articleRepo.NewPostgresRepository(pool)
	c.SpaceRepo = spaceRepo.NewPostgresRepository(pool)
	c.SearchRepo = searchRepo.NewPostgresRepository(pool)
	c.FeedRepo = feedRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	pool := c.DB.Pool
	recorder := feedService.NewActivityRecorder(c.FeedRepo)
	limiter := auth.NewRateLimiter(c.AuthRepo)
	provider := github.NewProvider(
		c.Config.GitHub.ClientID,
		c.Config.GitHub.ClientSecret,
		c.Config.GitHub.RedirectURL,
	)

	c.UserService = userService.NewUserService(pool, c.UserRepo, c.TagRepo, c.SearchRepo)
	c.AuthService = authService.NewAuthService(pool, c.AuthRepo, c.UserRepo, limiter, c.Tokens, provider, c.SearchRepo)
	c.TagService = tagService.NewTagService(c.TagRepo)
	c.ArticleService = articleService.NewArticleService(pool, c.ArticleRepo, c.TagRepo, c.SearchRepo, recorder)
	c.SpaceService = spaceService.NewSpaceService(pool, c.SpaceRepo, c.TagRepo, c.SearchRepo, recorder)
	c.SearchService = searchService.NewSearchService(c.SearchRepo, c.Queue)
	c.FeedService = feedService.NewFeedService(c.FeedRepo, c.Cache)
}

func (c *Container) initHandlers() {
	c.AuthHandler = authHandler.NewAuthHandler(c.AuthService, c.Config)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.TagHandler = tagHandler.NewTagHandler(c.TagService)
	c.ArticleHandler = articleHandler.NewArticleHandler(c.ArticleService)
	c.SpaceHandler = spaceHandler.NewSpaceHandler(c.SpaceService)
	c.SearchHandler = searchHandler.NewSearchHandler(c.SearchService)
	c.FeedHandler = feedHandler.NewFeedHandler(c.FeedService)
}

func (c *Container) initJobs() {
	c.AuthCleanupJob = authJob.NewCleanupHandler(c.AuthRepo)
	c.ActivityCleanupJob = feedJob.NewCleanupHandler(c.FeedRepo)
	c.TagTrendingJob = tagJob.NewTrendingHandler(c.TagService)
	c.SearchReindexJob = searchJob.NewReindexHandler(c.SearchRepo)
}

// HealthCheck verifies both backing stores are reachable.
func (c *Container) HealthCheck(ctx context.Context) error {
	if err := c.DB.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Redis.HealthCheck(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Cleanup closes infrastructure connections in reverse order.
func (c *Container) Cleanup() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Error("failed to close task queue client", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	logger.Info("container cleaned up", nil)
}
