package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/ticketflow/server/cmd/server/docs" // swagger docs

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
	"github.com/ticketflow/server/internal/shared/metrics"
	"github.com/ticketflow/server/internal/utils/middleware"
)

// App wires configuration, storage, the event bus and every feature
// module into a single HTTP server.
type App struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	router *gin.Engine
	logger *zap.Logger
	bus    *infraevents.Bus
}

// New creates a fully wired application.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	if err := database.Migrate(db,
		&auth.User{},
		&auth.RefreshToken{},
		&profile.Profile{},
		&project.Project{},
		&team.UserRole{},
		&team.ProjectInvitation{},
		&ticket.Ticket{},
		&ticket.Comment{},
		&notification.Notification{},
		&timetrack.TimeEntry{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	rdb, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	app := &App{
		config: cfg,
		db:     db,
		redis:  rdb,
		logger: log,
		bus:    infraevents.NewBus(log),
	}
	app.router = app.buildRouter()

	return app, nil
}

// buildRouter constructs every module and mounts its routes.
func (a *App) buildRouter() *gin.Engine {
	cfg := a.config

	jwtManager := auth.NewJWTManager(&auth.JWTConfig{
		Secret:             cfg.Auth.JWTSecret,
		AccessTokenExpiry:  cfg.Auth.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.Auth.RefreshTokenExpiry,
		Issuer:             cfg.Auth.Issuer,
	})

	providers := oauth.NewRegistry()
	if cfg.OAuth.Google.ClientID != "" {
		providers.Register(oauth.NewGoogleProvider(&oauth.Config{
			ClientID:     cfg.OAuth.Google.ClientID,
			ClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectURL:  cfg.OAuth.Google.RedirectURL,
		}))
	}
	if cfg.OAuth.GitHub.ClientID != "" {
		providers.Register(oauth.NewGitHubProvider(&oauth.Config{
			ClientID:     cfg.OAuth.GitHub.ClientID,
			ClientSecret: cfg.OAuth.GitHub.ClientSecret,
			RedirectURL:  cfg.OAuth.GitHub.RedirectURL,
		}))
	}

	authService := auth.NewService(
		auth.NewRepository(a.db),
		jwtManager,
		providers,
		auth.NewRedisStateStore(a.redis, 10*time.Minute),
		a.logger,
	)

	avatarStorage, err := profile.NewS3AvatarStorage(&cfg.Storage)
	var storage profile.AvatarStorage
	if err != nil {
		a.logger.Warn("avatar storage unavailable", zap.Error(err))
	} else {
		storage = profile.NewBreakerStorage(avatarStorage)
	}
	profileService := profile.NewService(profile.NewRepository(a.db), storage, a.logger)

	projectService := project.NewService(project.NewRepository(a.db), a.logger)

	ticketService := ticket.NewService(
		ticket.NewRepository(a.db),
		projectService,
		profileService,
		a.bus,
		a.logger,
	)

	teamService := team.NewService(
		team.NewRepository(a.db),
		profileService,
		projectService,
		a.bus,
		a.logger,
	)

	notificationService := notification.NewService(
		notification.NewRepository(a.db),
		a.redis,
		cfg.Stream,
		a.logger,
	)
	a.bus.Register(notification.NewEventHandler(notificationService))

	timetrackService := timetrack.NewService(timetrack.NewRepository(a.db), a.logger)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logging(a.logger),
		middleware.Recovery(a.logger),
		middleware.CORS(middleware.DefaultCORSConfig()),
		middleware.Metrics(metrics.Default),
		middleware.RateLimit(middleware.NewRateLimiter(a.redis), 300, time.Minute),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	v1 := router.Group("/api/v1")
	auth.NewHandler(authService).RegisterRoutes(v1)

	protected := v1.Group("", middleware.RequireAuth(jwtManager))
	profile.NewHandler(profileService).RegisterRoutes(protected)
	project.NewHandler(projectService).RegisterRoutes(protected)
	ticket.NewHandler(ticketService).RegisterRoutes(protected)
	team.NewHandler(teamService).RegisterRoutes(protected)
	notification.NewHandler(notificationService).RegisterRoutes(protected)
	timetrack.NewHandler(timetrackService).RegisterRoutes(protected)

	return router
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases held connections.
func (a *App) Stop() {
	if err := cache.Close(a.redis); err != nil {
		a.logger.Warn("close redis", zap.Error(err))
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
