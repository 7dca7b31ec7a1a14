package container

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sistersconnect/backend/internal/config"
	httpdelivery "github.com/sistersconnect/backend/internal/delivery/http"
	"github.com/sistersconnect/backend/internal/delivery/http/handler"
	"github.com/sistersconnect/backend/internal/delivery/http/middleware"
	rediscache "github.com/sistersconnect/backend/internal/infrastructure/cache"
	"github.com/sistersconnect/backend/internal/infrastructure/database"
	"github.com/sistersconnect/backend/internal/infrastructure/gemini"
	"github.com/sistersconnect/backend/internal/infrastructure/server"
	"github.com/sistersconnect/backend/internal/matching"
	"github.com/sistersconnect/backend/internal/repository/postgres"
	"github.com/sistersconnect/backend/internal/usecase/interaction"
	"github.com/sistersconnect/backend/internal/usecase/profile"
	"github.com/sistersconnect/backend/internal/usecase/recommend"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.GeminiClient
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize the match result cache; Redis is the default, memory
	// serves single-instance deployments.
	var resultCache matching.ResultCache
	var redisClient *redis.Client
	if cfg.Matching.CacheBackend == "redis" {
		redisClient, err = database.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		resultCache = rediscache.NewRedisCache(redisClient, cfg.Matching.CacheTTL)
	} else {
		resultCache = matching.NewMemoryCache(cfg.Matching.CacheTTL)
	}

	// Initialize Gemini Client
	geminiClient, err := gemini.NewGeminiClient(cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn("gemini client unavailable, AI features disabled", zap.Error(err))
		geminiClient = nil
	}

	// Initialize repositories
	profileRepo := postgres.NewProfileRepository(db)
	connRepo := postgres.NewConnectionRepository(db)
	communityRepo := postgres.NewCommunityRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	behaviorRepo := postgres.NewBehaviorRepository(db)
	prefRepo := postgres.NewPreferenceRepository(db)

	// Initialize the matching pipeline
	matcher := matching.NewService(resultCache, logger, matching.Config{
		DefaultLimit:   cfg.Matching.DefaultLimit,
		FeatureLimit:   cfg.Matching.FeatureLimit,
		ScoringWorkers: cfg.Matching.ScoringWorkers,
		DedupeInFlight: true,
	})

	// Initialize use cases
	recommendUseCase := recommend.NewRecommendUseCase(
		matcher,
		profileRepo,
		connRepo,
		communityRepo,
		eventRepo,
		behaviorRepo,
		prefRepo,
		geminiClient,
		logger,
	)

	interactionUseCase := interaction.NewInteractionUseCase(
		behaviorRepo,
		connRepo,
		matcher.Tracker(),
		resultCache,
		logger,
	)

	profileUseCase := profile.NewProfileUseCase(
		profileRepo,
		prefRepo,
		resultCache,
		logger,
	)

	// Initialize handlers
	matchHandler := handler.NewMatchHandler(recommendUseCase)
	interactionHandler := handler.NewInteractionHandler(interactionUseCase)
	networkHandler := handler.NewNetworkHandler(recommendUseCase)
	profileHandler := handler.NewProfileHandler(profileUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.AccessSecret)

	// Initialize router
	router := httpdelivery.NewRouter(
		matchHandler,
		interactionHandler,
		networkHandler,
		profileHandler,
		authMiddleware,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Redis:  redisClient,
		Server: srv,
		Gemini: geminiClient,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("error closing redis", zap.Error(err))
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
