package app

import (
	"context"

	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/config"
	"esign-adapter/internal/crypto"
	"esign-adapter/internal/envstate"
	"esign-adapter/internal/idmap"
	"esign-adapter/internal/oauth2"
)

func (app *App) initializeIDStore(ctx context.Context) error {
	switch app.Config.IDStore {
	case config.StoreRedis:
		app.IDStore = idmap.NewRedisStore(app.RedisClient)
	case config.StorePostgres:
		store, err := idmap.NewPostgresStore(ctx, app.Config.DatabaseURL)
		if err != nil {
			return errors.ConnectionError("failed to connect to postgres", err)
		}
		app.postgres = store
		if err := store.Migrate(ctx); err != nil {
			return errors.InternalError("failed to migrate id store", err)
		}
		app.IDStore = store
	default:
		app.IDStore = idmap.NewMemoryStore()
	}

	app.Logger.Info("ID store initialized", logging.Field{"backend", app.Config.IDStore})
	return nil
}

// initializeStatusTracker keeps last known statuses on the same backend as the id mapping
func (app *App) initializeStatusTracker(ctx context.Context) error {
	var store envstate.Store
	switch app.Config.IDStore {
	case config.StoreRedis:
		store = envstate.NewRedisStore(app.RedisClient)
	case config.StorePostgres:
		pg := envstate.NewPostgresStore(app.postgres.Pool())
		if err := pg.Migrate(ctx); err != nil {
			return errors.InternalError("failed to migrate status store", err)
		}
		store = pg
	default:
		store = envstate.NewMemoryStore()
	}

	app.StatusTracker = envstate.NewTracker(store, envstate.WithLogger(app.Logger))
	return nil
}

func (app *App) initializeTokenStorage() error {
	if app.Config.TokenStore != config.StoreRedis {
		app.TokenStorage = oauth2.NewMemoryTokenStorage()
		return nil
	}

	encryptor, err := crypto.NewConfigEncryptor(app.Config.EncryptionKey)
	if err != nil {
		return errors.ConfigError("invalid CONFIG_ENCRYPTION_KEY: " + err.Error())
	}
	app.TokenStorage = oauth2.NewRedisTokenStorage(app.RedisClient, encryptor)
	app.Logger.Info("Token storage: Redis (encrypted)")
	return nil
}
