// Package app wires configuration, stores, the e-signature adapter and the
// HTTP surface into a runnable process.
package app

import (
	"context"
	"fmt"

	"esign-adapter/internal/adobesign"
	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/config"
	"esign-adapter/internal/envstate"
	"esign-adapter/internal/esignature"
	"esign-adapter/internal/handlers"
	"esign-adapter/internal/idmap"
	"esign-adapter/internal/metrics"
	"esign-adapter/internal/oauth2"
	"esign-adapter/internal/redis"
	"esign-adapter/internal/statussync"
)

// App holds all the application dependencies
type App struct {
	Config       *config.Config
	RedisClient  *redis.Client
	IDStore       idmap.Store
	StatusTracker *envstate.Tracker
	TokenStorage  oauth2.TokenStorage
	OAuthManager  *oauth2.Manager
	Adapter       *adobesign.Adapter
	Envelopes     esignature.EnvelopePort
	StatusSync    *statussync.Scheduler
	Logger        logging.Logger

	postgres *idmap.PostgresStore
	handlers *handlers.Handlers
}

// New creates a new application instance with all dependencies
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{"component", "app"}),
	}

	metrics.RegisterDefault()

	// Initialize components in order of dependency
	if err := app.initializeRedis(); err != nil {
		return nil, err
	}

	if err := app.initializeIDStore(ctx); err != nil {
		app.Cleanup()
		return nil, err
	}

	if err := app.initializeStatusTracker(ctx); err != nil {
		app.Cleanup()
		return nil, err
	}

	if err := app.initializeTokenStorage(); err != nil {
		app.Cleanup()
		return nil, err
	}

	if err := app.initializeProvider(); err != nil {
		app.Cleanup()
		return nil, err
	}

	if err := app.initializeStatusSync(); err != nil {
		app.Cleanup()
		return nil, err
	}

	return app, nil
}

// initializeProvider builds the adapter selected by ESIGNATURE_PROVIDER.
// Adobe Sign is the only provider this process ships.
func (app *App) initializeProvider() error {
	switch app.Config.ESignatureProvider {
	case config.ProviderAdobeSign:
		adapter, manager, err := newAdobeSignAdapter(app.Config.AdobeSign, app.IDStore, app.TokenStorage, app.Logger)
		if err != nil {
			return err
		}
		app.Adapter = adapter
		app.OAuthManager = manager
		app.Envelopes = adapter
		app.Logger.Info("E-signature provider: Adobe Sign",
			logging.Field{"base_url", app.Config.AdobeSign.RESTBaseURL()},
		)
		return nil
	default:
		return errors.ConfigError(fmt.Sprintf("no e-signature adapter for provider %q", app.Config.ESignatureProvider))
	}
}

func (app *App) initializeStatusSync() error {
	if app.Config.StatusSyncSchedule == "" {
		app.Logger.Info("Status sync: Disabled")
		return nil
	}

	opts := []statussync.Option{
		statussync.WithLogger(app.Logger),
		statussync.WithObserver(app.StatusTracker),
	}
	if app.Adapter != nil {
		opts = append(opts, statussync.WithBreaker(app.Adapter.Breaker()))
	}
	if app.RedisClient != nil {
		opts = append(opts, statussync.WithLocker(app.RedisClient, 0))
	}

	scheduler, err := statussync.New(app.Config.StatusSyncSchedule, app.Envelopes, app.IDStore, opts...)
	if err != nil {
		return err
	}
	app.StatusSync = scheduler
	app.Logger.Info("Status sync: Enabled",
		logging.Field{"schedule", app.Config.StatusSyncSchedule},
		logging.Field{"distributed_lock", app.RedisClient != nil},
	)
	return nil
}

// Shutdown stops background work
func (app *App) Shutdown(ctx context.Context) error {
	if app.handlers != nil {
		if err := app.handlers.Wait(ctx); err != nil {
			return err
		}
	}
	if app.StatusSync != nil {
		if err := app.StatusSync.Stop(ctx); err != nil {
			return err
		}
		app.Logger.Info("Status sync stopped")
	}
	return nil
}

// Cleanup releases connections
func (app *App) Cleanup() {
	if app.postgres != nil {
		app.postgres.Close()
	}
	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Logger.Warn("Error closing redis", logging.Err(err))
		}
	}
}
