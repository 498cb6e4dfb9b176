package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"propupkeep/internal/bootstrap/config"
	"propupkeep/internal/bootstrap/database"
	"propupkeep/internal/bootstrap/logging"
	"propupkeep/internal/errs"
	"propupkeep/internal/infrastructure/formatter"
	"propupkeep/internal/infrastructure/persistence/jsonl"
	sqliterepo "propupkeep/internal/infrastructure/persistence/sqlite/repository"
	"propupkeep/internal/ports"
	"propupkeep/internal/usecase/workflow"
)

// App holds the explicitly constructed application graph: configuration is
// loaded once here and passed down as a value, never read from process-wide
// state.
type App struct {
	Config   config.Config
	Store    ports.IssueRepository
	Workflow *workflow.Service

	db *gorm.DB
}

func New(ctx context.Context, configFile string) (*App, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))

	cfg, err := config.Load(logCtx, configFile)
	if err != nil {
		return nil, errs.Wrap(err, "load config")
	}

	app := &App{Config: cfg}

	switch strings.ToLower(cfg.Storage.Driver) {
	case "jsonl":
		store, err := jsonl.New(cfg.Storage.DataFile)
		if err != nil {
			return nil, errs.Wrap(err, "open jsonl store")
		}
		app.Store = store
	case "sqlite":
		db, err := database.Open(logCtx, cfg.Storage.DataFile)
		if err != nil {
			return nil, errs.Wrap(err, "open database")
		}
		if err := sqliterepo.Migrate(db); err != nil {
			return nil, errs.Wrap(err, "migrate schema")
		}
		app.db = db
		app.Store = sqliterepo.NewIssueRepository(db)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	issueFormatter := formatter.New(formatter.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout(),
	})

	app.Workflow = workflow.NewService(issueFormatter, app.Store, workflow.Config{
		MaxInputChars:  cfg.Limits.MaxInputChars,
		MaxUploadBytes: cfg.Limits.MaxUploadBytes(),
		UploadsDir:     cfg.Storage.UploadsDir,
		AppRoot:        ".",
	})

	logging.Info(logCtx, "application bootstrap completed",
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.Bool("formatting_enabled", cfg.OpenAI.APIKey != ""),
	)
	return app, nil
}

func (a *App) Close(ctx context.Context) error {
	if a.db == nil {
		return nil
	}

	sqlDB, err := a.db.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}
	if err := sqlDB.Close(); err != nil {
		return errs.Wrap(err, "close sql db")
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.app")), "database connection closed")
	return nil
}
