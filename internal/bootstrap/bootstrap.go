package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/empdesk/internal/app/controllers"
	appMigrations "github.com/yigit/empdesk/internal/app/migrations"
	appRepos "github.com/yigit/empdesk/internal/app/repositories"
	appRoutes "github.com/yigit/empdesk/internal/app/routes"
	appServices "github.com/yigit/empdesk/internal/app/services"
	"github.com/yigit/empdesk/internal/config"
	"github.com/yigit/empdesk/internal/db"
	appMiddleware "github.com/yigit/empdesk/internal/middleware"
	pkgAuth "github.com/yigit/empdesk/internal/pkg/auth"
	"github.com/yigit/empdesk/internal/pkg/filestorage"
	"github.com/yigit/empdesk/internal/pkg/logger"
	"github.com/yigit/empdesk/internal/pkg/metrics"
	"github.com/yigit/empdesk/internal/seed"
)

// Stores are the persistence backends the services run on.
type Stores struct {
	Employees appRepos.EmployeeStore
	Users     appRepos.UserStore
	// DB answers the health check; nil reports healthy.
	DB appControllers.Pinger
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	EmployeeService    *appServices.EmployeeService
	AuthService        *appServices.AuthService
	AuthController     *appControllers.AuthController
	EmployeeController *appControllers.EmployeeController
	HealthController   *appControllers.HealthController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	JWTService         *pkgAuth.JWTService
	FileStorage        *filestorage.LocalStorage
	Metrics            *metrics.AppMetrics
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default administrator.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("dir", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.AdminAccount{
		Username:   cfg.Auth.AdminUsername,
		Password:   cfg.Auth.AdminPassword,
		BcryptCost: cfg.Auth.BcryptCost,
	}
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(dbPool), admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// PostgresStores returns the Postgres-backed stores.
func PostgresStores(dbPool *pgxpool.Pool) Stores {
	repos := appRepos.NewRepositories(dbPool)
	return Stores{
		Employees: repos.EmployeeRepository,
		Users:     repos.UserRepository,
		DB:        dbPool,
	}
}

// BuildDependencies initializes services, middleware and controllers.
func BuildDependencies(cfg *config.Config, stores Stores, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.MaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Metrics = metrics.NewAppMetrics()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.TokenLifetime(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(stores.Users, deps.JWTService, cfg.Auth.BcryptCost, deps.Metrics, lgr)
	deps.EmployeeService = appServices.NewEmployeeService(stores.Employees, deps.FileStorage, deps.Metrics, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.EmployeeController = appControllers.NewEmployeeController(deps.EmployeeService, deps.FileStorage, cfg.Server.MaxUploadSize)
	deps.HealthController = appControllers.NewHealthController(stores.DB, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Server.MaxUploadSize
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(deps.Metrics),
		appMiddleware.CORS(cfg.Server.AllowOrigin),
	)

	router.Static("/"+filestorage.PublicPrefix, cfg.Server.StoragePath)

	appRoutes.SetupRouter(router, appRoutes.Controllers{
		Auth:     deps.AuthController,
		Employee: deps.EmployeeController,
		Health:   deps.HealthController,
	}, deps.AuthMiddleware, deps.Metrics.Handler())

	return router
}
