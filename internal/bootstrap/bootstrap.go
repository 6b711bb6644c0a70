package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/studentrecords/internal/app/controllers"
	appMigrations "github.com/yigit/studentrecords/internal/app/migrations"
	appRepos "github.com/yigit/studentrecords/internal/app/repositories"
	appRoutes "github.com/yigit/studentrecords/internal/app/routes"
	appServices "github.com/yigit/studentrecords/internal/app/services"
	appViews "github.com/yigit/studentrecords/internal/app/views"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/db"
	appMiddleware "github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/logger"
	"github.com/yigit/studentrecords/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Database          db.Database
	Repos             *appRepos.Repositories
	Services          *appServices.Services
	StudentController *appControllers.StudentController
	RosterController  *appControllers.RosterController
	HealthController  *appControllers.HealthController
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// The config file path can be overridden with CONFIG_PATH.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().
		Str("logLevel", cfg.Logging.Level).
		Str("logFormat", cfg.Logging.Format).
		Str("dbDriver", cfg.Database.Driver).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured store, checks it is reachable and
// creates the schema when missing.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (db.Database, *appRepos.Repositories, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")

	var (
		database db.Database
		repos    *appRepos.Repositories
		migrator *appMigrations.Migrator
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		database = pg
		repos = appRepos.NewPostgresRepositories(pg)
		migrator = appMigrations.NewPostgresMigrator(pg.Pool, lgr)
	case config.DriverSQLite:
		lite, err := db.NewSQLiteDB(cfg, lgr)
		if err != nil {
			lgr.Error().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
			return nil, nil, err
		}
		database = lite
		repos = appRepos.NewSQLiteRepositories(lite)
		migrator = appMigrations.NewSQLiteMigrator(lite.Gorm, lgr)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		_ = database.Close()
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Ensuring database schema...")
	if err := migrator.EnsureSchema(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database schema error")
		_ = database.Close()
		return nil, nil, fmt.Errorf("database schema setup failed: %w", err)
	}
	lgr.Info().Msg("Database schema ready.")

	return database, repos, nil
}

// BuildDependencies initializes application services and controllers.
func BuildDependencies(database db.Database, repos *appRepos.Repositories, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Database: database,
		Repos:    repos,
		Logger:   lgr,
	}

	deps.Services = appServices.NewServices(repos)

	deps.StudentController = appControllers.NewStudentController(deps.Services.StudentService)
	deps.RosterController = appControllers.NewRosterController(deps.Services.RosterService)
	deps.HealthController = appControllers.NewHealthController(database)

	return deps
}

// SeedData creates the default catalogue and demo students as configured.
// Failures are logged; the application can run without seed data.
func SeedData(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if cfg.Seed.DefaultCourses {
		if err := seed.CreateDefaultData(ctx, deps.Services.CourseService, deps.Logger); err != nil {
			deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	if err := seed.CreateDemoStudents(ctx, deps.Services.StudentService, cfg.Seed.DemoStudents, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create demo students, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware, templates and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production", "release":
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	templates, err := appViews.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(templates)

	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.RosterController,
		deps.HealthController,
	)

	return router, nil
}
