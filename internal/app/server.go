package app

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"esign-adapter/internal/handlers"
	"esign-adapter/internal/server"
)

// Handler builds the router with every handler configured
func (app *App) Handler() http.Handler {
	// Validate has already parsed the list.
	proxies, _ := app.Config.TrustedProxyPrefixes()

	opts := []handlers.Option{
		handlers.WithLogger(app.Logger),
		handlers.WithTrustedProxies(proxies),
	}
	if app.StatusTracker != nil {
		opts = append(opts, handlers.WithStatusTracker(app.StatusTracker))
	}
	if app.OAuthManager != nil {
		opts = append(opts, handlers.WithTokenSource(app.OAuthManager))
	}
	if limiter := newWebhookLimiter(); limiter != nil {
		opts = append(opts, handlers.WithWebhookLimiter(limiter))
	}
	if app.Adapter != nil {
		opts = append(opts, handlers.WithBreaker(app.Adapter.Breaker()))
	}
	if app.RedisClient != nil {
		redisClient := app.RedisClient
		opts = append(opts, handlers.WithHealthCheck("redis", func(context.Context) error {
			return redisClient.Health()
		}))
	}
	if app.postgres != nil {
		opts = append(opts, handlers.WithHealthCheck("postgres", app.postgres.Ping))
	}

	h := handlers.New(app.Envelopes, app.Config, opts...)
	app.handlers = h

	router := mux.NewRouter()
	SetupRoutes(router, h)
	return router
}

// RunServer starts the HTTP server and the status sync
func (app *App) RunServer() (*server.Server, error) {
	srv := server.New(app.Handler(), app.Config.Port, app.Config.TLSCertFile, app.Config.TLSKeyFile)
	if err := srv.Start(); err != nil {
		return nil, err
	}

	if app.StatusSync != nil {
		if err := app.StatusSync.Start(); err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(ctx)
			return nil, err
		}
	}
	return srv, nil
}
