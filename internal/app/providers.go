package app

import (
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	infraevents "github.com/ticketflow/server/internal/infra/events"
	"github.com/ticketflow/server/internal/module/auth"
	"github.com/ticketflow/server/internal/module/auth/oauth"
	"github.com/ticketflow/server/internal/module/notification"
	"github.com/ticketflow/server/internal/module/profile"
	"github.com/ticketflow/server/internal/module/project"
	"github.com/ticketflow/server/internal/module/team"
	"github.com/ticketflow/server/internal/module/ticket"
	"github.com/ticketflow/server/internal/module/timetrack"
	"github.com/ticketflow/server/internal/shared/cache"
	"github.com/ticketflow/server/internal/shared/config"
	"github.com/ticketflow/server/internal/shared/database"
	"github.com/ticketflow/server/internal/shared/logger"
)

// Dependencies holds everything the injector builds. The manual New
// path in app.go remains the production entry point.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	Bus    *infraevents.Bus

	JWTManager *auth.JWTManager

	AuthHandler         *auth.Handler
	ProfileHandler      *profile.Handler
	ProjectHandler      *project.Handler
	TicketHandler       *ticket.Handler
	TeamHandler         *team.Handler
	NotificationHandler *notification.Handler
	TimetrackHandler    *timetrack.Handler

	NotificationEvents *notification.EventHandler
}

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideEventBus,
	ProvideJWTManager,
	ProvideOAuthRegistry,
	ProvideStateStore,
	wire.Bind(new(auth.StateStore), new(*auth.RedisStateStore)),
)

// RepositorySet provides per-module repositories.
var RepositorySet = wire.NewSet(
	auth.NewRepository,
	profile.NewRepository,
	project.NewRepository,
	ticket.NewRepository,
	team.NewRepository,
	notification.NewRepository,
	timetrack.NewRepository,
)

// ServiceSet provides per-module services, with the cross-module
// interfaces bound to their concrete implementations.
var ServiceSet = wire.NewSet(
	auth.NewService,
	ProvideAvatarStorage,
	profile.NewService,
	project.NewService,
	ticket.NewService,
	team.NewService,
	ProvideNotificationService,
	timetrack.NewService,
	wire.Bind(new(ticket.MembershipChecker), new(*project.Service)),
	wire.Bind(new(ticket.ProfileResolver), new(*profile.Service)),
	wire.Bind(new(team.ProfileResolver), new(*profile.Service)),
	wire.Bind(new(team.ProjectNamer), new(*project.Service)),
)

// HandlerSet provides the HTTP handlers.
var HandlerSet = wire.NewSet(
	auth.NewHandler,
	profile.NewHandler,
	project.NewHandler,
	ticket.NewHandler,
	team.NewHandler,
	notification.NewHandler,
	timetrack.NewHandler,
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&cfg.Log)
}

// ProvideDatabase creates the database connection.
func ProvideDatabase(cfg *config.Config) (*gorm.DB, error) {
	return database.New(&cfg.Database)
}

// ProvideRedisClient creates the Redis client.
func ProvideRedisClient(cfg *config.Config) (*redis.Client, error) {
	return cache.NewRedisClient(&cfg.Redis)
}

// ProvideEventBus creates the in-process event bus.
func ProvideEventBus(log *zap.Logger) *infraevents.Bus {
	return infraevents.NewBus(log)
}

// ProvideJWTManager creates the token manager from auth configuration.
func ProvideJWTManager(cfg *config.Config) *auth.JWTManager {
	return auth.NewJWTManager(&auth.JWTConfig{
		Secret:             cfg.Auth.JWTSecret,
		AccessTokenExpiry:  cfg.Auth.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.Auth.RefreshTokenExpiry,
		Issuer:             cfg.Auth.Issuer,
	})
}

// ProvideOAuthRegistry creates the OAuth provider registry with every
// configured provider registered.
func ProvideOAuthRegistry(cfg *config.Config) *oauth.Registry {
	registry := oauth.NewRegistry()
	if cfg.OAuth.Google.ClientID != "" {
		registry.Register(oauth.NewGoogleProvider(&oauth.Config{
			ClientID:     cfg.OAuth.Google.ClientID,
			ClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectURL:  cfg.OAuth.Google.RedirectURL,
		}))
	}
	if cfg.OAuth.GitHub.ClientID != "" {
		registry.Register(oauth.NewGitHubProvider(&oauth.Config{
			ClientID:     cfg.OAuth.GitHub.ClientID,
			ClientSecret: cfg.OAuth.GitHub.ClientSecret,
			RedirectURL:  cfg.OAuth.GitHub.RedirectURL,
		}))
	}
	return registry
}

// ProvideStateStore creates the OAuth state store.
func ProvideStateStore(rdb *redis.Client) *auth.RedisStateStore {
	return auth.NewRedisStateStore(rdb, 10*time.Minute)
}

// ProvideAvatarStorage creates the avatar object store behind its
// circuit breaker. A misconfigured store disables uploads rather than
// failing startup.
func ProvideAvatarStorage(cfg *config.Config, log *zap.Logger) profile.AvatarStorage {
	s3Store, err := profile.NewS3AvatarStorage(&cfg.Storage)
	if err != nil {
		log.Warn("avatar storage unavailable", zap.Error(err))
		return nil
	}
	return profile.NewBreakerStorage(s3Store)
}

// ProvideNotificationService creates the notification service.
func ProvideNotificationService(repo notification.Repository, rdb *redis.Client, cfg *config.Config, log *zap.Logger) *notification.Service {
	return notification.NewService(repo, rdb, cfg.Stream, log)
}
