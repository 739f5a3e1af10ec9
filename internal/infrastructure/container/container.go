// Package container provides dependency injection using Uber FX.
package container

import (
	"context"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealpathway/v1/internal/application/account"
	"github.com/mealpathway/v1/internal/application/assistant"
	"github.com/mealpathway/v1/internal/application/diabetescare"
	"github.com/mealpathway/v1/internal/application/mealplan"
	"github.com/mealpathway/v1/internal/application/shoppinglist"
	"github.com/mealpathway/v1/internal/infrastructure/ai/lexica"
	"github.com/mealpathway/v1/internal/infrastructure/ai/openai"
	"github.com/mealpathway/v1/internal/infrastructure/cache"
	"github.com/mealpathway/v1/internal/infrastructure/config"
	"github.com/mealpathway/v1/internal/infrastructure/http/apiserver"
	"github.com/mealpathway/v1/internal/infrastructure/images"
	gormrepo "github.com/mealpathway/v1/internal/infrastructure/persistence/gorm"
	"github.com/mealpathway/v1/internal/infrastructure/persistence/postgres"
	"github.com/mealpathway/v1/internal/infrastructure/security"
	"github.com/mealpathway/v1/internal/ports/inbound"
	"github.com/mealpathway/v1/internal/ports/outbound"
	"github.com/mealpathway/v1/pkg/healthcheck"
	"github.com/mealpathway/v1/pkg/logger"
)

// Module provides all dependency injection modules.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	AIModule,
	SecurityModule,
	RepositoryModule,
	ServiceModule,
	HealthModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration.
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.IsDevelopment(),
		})
	},
)

// DatabaseModule provides the postgres connection and runs migrations.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := postgres.Connect(cfg, log)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := gormrepo.AutoMigrate(db); err != nil {
				return nil, err
			}
			log.Info("database migrations applied")
		}
		return db, nil
	},
)

// CacheModule provides the layered local+redis cache. Redis is optional;
// without a host the service runs on the local tier alone.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *cache.RedisClient {
		if cfg.Redis.Host == "" {
			log.Info("redis not configured, using local cache only")
			return nil
		}
		client, err := cache.NewRedisClient(&cfg.Redis, log)
		if err != nil {
			log.Warn("redis unavailable, using local cache only", zap.Error(err))
			return nil
		}
		return client
	},
	func(cfg *config.Config, redis *cache.RedisClient, log *zap.Logger) outbound.CacheRepository {
		local := cache.NewLocalCache(cfg.Images.CacheSize)
		return cache.NewLayeredCache(local, redis, cfg.Images.CacheTTL, log)
	},
)

// AIModule provides the chat, image search, and image generation clients
// plus the image resolution service.
var AIModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *openai.Client {
		return openai.NewClient(&cfg.AI, log)
	},
	func(client *openai.Client) outbound.ChatCompletionClient { return client },
	func(client *openai.Client) outbound.ImageGenerationClient { return client },
	func(cfg *config.Config, log *zap.Logger) outbound.ImageSearchClient {
		return lexica.NewClient(cfg.Images.LexicaBaseURL, cfg.Images.MinDimension, log)
	},
	func(
		cacheRepo outbound.CacheRepository,
		search outbound.ImageSearchClient,
		generator outbound.ImageGenerationClient,
		cfg *config.Config,
		log *zap.Logger,
	) *images.Service {
		return images.NewService(cacheRepo, search, generator, cfg.Images, log)
	},
	func(svc *images.Service) outbound.ImageResolver { return svc },
)

// SecurityModule provides token issuance and validation.
var SecurityModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *security.TokenService {
		return security.NewTokenService(&cfg.Auth, log)
	},
	func(tokens *security.TokenService) outbound.TokenIssuer { return tokens },
)

// RepositoryModule provides repository implementations.
var RepositoryModule = fx.Provide(
	gormrepo.NewUserRepository,
	gormrepo.NewMealRepository,
	gormrepo.NewDiabetesRepository,
	gormrepo.NewShoppingRepository,
)

// ServiceModule provides application services.
var ServiceModule = fx.Provide(
	func(
		userRepo outbound.UserRepository,
		cacheRepo outbound.CacheRepository,
		tokens outbound.TokenIssuer,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.AccountService {
		return account.NewService(userRepo, cacheRepo, tokens,
			cfg.Billing.PlanLookupKeys, cfg.Billing.EntitlementTTL, log)
	},
	mealplan.NewService,
	diabetescare.NewService,
	shoppinglist.NewService,
	assistant.NewService,
)

// HealthModule provides the health check registry with the dependency
// probes registered.
var HealthModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, db *gorm.DB, redis *cache.RedisClient) *healthcheck.HealthCheck {
		hc := healthcheck.New(cfg.App.Version, log)
		hc.Register("database", healthcheck.NewDatabaseChecker(db))
		if redis != nil {
			hc.Register("redis", healthcheck.NewRedisChecker(redis))
		} else {
			hc.Register("redis", healthcheck.NewRedisChecker(nil))
		}
		hc.Register("image_search", healthcheck.NewExternalServiceChecker(cfg.Images.LexicaBaseURL, 0))
		return hc
	},
)

// HTTPModule provides the API server.
var HTTPModule = fx.Provide(
	apiserver.NewServer,
)

// LifecycleModule starts and stops the server with the fx lifecycle.
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks registers application lifecycle hooks.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	redis *cache.RedisClient,
	server *apiserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting application",
				zap.String("name", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					log.Error("HTTP server stopped", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down application")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("failed to shut down HTTP server", zap.Error(err))
			}

			if redis != nil {
				if err := redis.Close(); err != nil {
					log.Error("failed to close redis connection", zap.Error(err))
				}
			}

			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
