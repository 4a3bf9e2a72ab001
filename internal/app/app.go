package app

import (
	"io"

	"task-logger/internal/auth"
	"task-logger/internal/common/logging"
	"task-logger/internal/config"
	"task-logger/internal/redis"
	"task-logger/internal/sheets"
	"task-logger/internal/tasklog"
)

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	Gateway     sheets.Gateway
	Pipeline    *tasklog.Pipeline
	Auth        *auth.BearerAuth
	RedisClient *redis.Client
	Logger      logging.Logger
}

// New creates a new application instance with all dependencies
func New(cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	if err := app.initializeGateway(); err != nil {
		return nil, err
	}

	if err := app.initializeRedis(); err != nil {
		// Redis is optional, just log the error
		app.Logger.Warn("Redis initialization failed, continuing without Redis",
			logging.Field{Key: "error", Value: err.Error()})
	}

	app.Auth = auth.New(cfg.APIKey)
	if !cfg.AuthEnabled() {
		app.Logger.Warn("API_KEY is not set, /add_task accepts unauthenticated requests")
	}

	app.Pipeline = tasklog.New(app.Gateway, tasklog.Options{
		Window:   cfg.DedupeWindow,
		Lookback: cfg.DedupeLookback,
	})

	return app, nil
}

func (app *App) initializeGateway() error {
	gateway, err := sheets.New(app.Config)
	if err != nil {
		return err
	}

	app.Gateway = gateway
	app.Logger.Info("Row store configured",
		logging.Field{Key: "backend", Value: app.Config.SheetsBackend},
		logging.Field{Key: "sheet_name", Value: app.Config.SheetName},
	)
	return nil
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if closer, ok := app.Gateway.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			app.Logger.Warn("Error closing row store", logging.Field{Key: "error", Value: err.Error()})
		}
	}
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
