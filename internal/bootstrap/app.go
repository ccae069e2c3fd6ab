package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/exports"
	"resume-builder/internal/sessions"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shell"
	"resume-builder/resume/export"
	"resume-builder/resume/render"
	"resume-builder/resume/store"
)

// SweepInterval is how often idle sessions are evicted.
const SweepInterval = time.Minute

// App holds shared dependencies and the router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Printer         export.Printer
	ExportsRepo     exports.Repo
	SessionsRepo    sessions.Repo
	ExportsService  *exports.Service
	SessionsService *sessions.Service
	SessionHandler  *sessions.Handler
	ExportHandler   *exports.Handler
	ShellHandler    *shell.Handler
}

// Build prepares dependencies and wires routes. It starts no goroutines.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	objStore, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  objStore,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		SessionHandler: app.SessionHandler,
		ExportHandler:  app.ExportHandler,
		ShellHandler:   app.ShellHandler,
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.db_skipped", map[string]any{"reason": "DATABASE_URL empty; using in-memory export history"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Error("bootstrap.db_unavailable", map[string]any{"error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) error {
	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	if app.DB != nil {
		app.ExportsRepo = &exports.PGRepo{DB: app.DB}
	} else {
		app.ExportsRepo = exports.NewMemoryRepo()
	}
	app.SessionsRepo = sessions.NewMemoryRepo(app.Config.SessionTTL)

	if app.Config.PDFExport {
		app.Printer = export.NewChromePrinter(app.Config.ChromePath)
	}

	app.ExportsService = &exports.Service{Repo: app.ExportsRepo, Store: app.Store}
	app.SessionsService = &sessions.Service{
		Repo:       app.SessionsRepo,
		Store:      store.New(nil),
		Renderer:   renderer,
		Exporter:   export.NewController(app.Printer, app.Config.ExportSettle),
		Exports:    app.ExportsService,
		SampleData: app.Config.SampleData,
		NoticeTTL:  app.Config.NoticeTTL,
	}

	app.SessionHandler = sessions.NewHandler(app.SessionsService)
	app.ExportHandler = exports.NewHandler(app.ExportsService)
	app.ShellHandler = shell.NewHandler(app.SessionsService, app.Printer != nil)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
