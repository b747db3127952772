package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/examseating/internal/app/auth"
	appControllers "github.com/yigit/examseating/internal/app/controllers"
	appMigrations "github.com/yigit/examseating/internal/app/migrations"
	appRepos "github.com/yigit/examseating/internal/app/repositories"
	appRoutes "github.com/yigit/examseating/internal/app/routes"
	appServices "github.com/yigit/examseating/internal/app/services"
	"github.com/yigit/examseating/internal/config"
	"github.com/yigit/examseating/internal/db"
	appMiddleware "github.com/yigit/examseating/internal/middleware"
	"github.com/yigit/examseating/internal/pkg/events"
	"github.com/yigit/examseating/internal/pkg/helpers"
	"github.com/yigit/examseating/internal/pkg/logger"
	"github.com/yigit/examseating/internal/pkg/metrics"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	Services          *appServices.Services
	AuthController    *appControllers.AuthController
	UploadController  *appControllers.UploadController
	SeatingController *appControllers.SeatingController
	Recorder          *metrics.Recorder
	Publisher         events.Publisher
	Redis             *redis.Client // nil unless rate limiting is on and Redis answered
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads .env, the YAML config and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// .env is optional
	_ = godotenv.Load()

	configPath := config.GetEnv("CONFIG_PATH", "configs/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to Postgres and applies the embedded migrations.
// It returns nil for the memory storage driver.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if strings.ToLower(cfg.Storage.Driver) != appRepos.DriverPostgres {
		lgr.Info().Str("driver", cfg.Storage.Driver).Msg("Using in-memory storage")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).Migrate(ctx); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes repositories, services and controllers.
// database may be nil when the memory driver is selected.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	driver := strings.ToLower(cfg.Storage.Driver)
	var err error
	if database != nil {
		deps.Repos, err = appRepos.NewRepositories(driver, database.Pool)
	} else {
		deps.Repos, err = appRepos.NewRepositories(driver, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if cfg.RateLimit.Enabled {
		deps.Redis = db.NewRedisClient(ctx, cfg)
	}

	if cfg.Broker.Enabled {
		deps.Publisher = events.NewAMQPPublisher(cfg.Broker.URL, cfg.Broker.Queue)
		lgr.Info().Str("queue", cfg.Broker.Queue).Msg("Allocation events go to RabbitMQ")
	} else {
		deps.Publisher = events.NoopPublisher{}
	}

	deps.Recorder = metrics.NewRecorder()

	deps.Services = appServices.NewServices(deps.Repos, deps.Publisher, deps.Recorder, appServices.SeatingOptions{
		Seed:           cfg.Allocation.Seed,
		RejectOverflow: cfg.Allocation.RejectOverflow,
	})

	classifier := appAuth.NewClassifier(cfg.Auth.FacultyDomain, cfg.Auth.StudentDomain)

	deps.AuthController = appControllers.NewAuthController(classifier, lgr)
	deps.UploadController = appControllers.NewUploadController(deps.Services.SeatingService, cfg.Server.MaxUploadBytes, lgr)
	deps.SeatingController = appControllers.NewSeatingController(deps.Services.SeatingService, deps.Services.DocumentService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		Secure:   cfg.Session.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(cfg.Session.Name, store))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UploadController,
		deps.SeatingController,
		appRoutes.Options{
			ProtectBulkDownload: cfg.Auth.ProtectBulkDownload,
			Metrics:             deps.Recorder.Handler(),
			RateLimit: appMiddleware.RateLimit(appMiddleware.RateLimitConfig{
				Enabled:        cfg.RateLimit.Enabled,
				Capacity:       cfg.RateLimit.Capacity,
				RefillTokens:   cfg.RateLimit.RefillTokens,
				RefillInterval: helpers.ParseDuration(cfg.RateLimit.RefillInterval, 2*time.Second),
				Prefix:         cfg.RateLimit.Prefix,
				TTL:            time.Hour,
			}, deps.Redis),
		},
	)

	return router
}
