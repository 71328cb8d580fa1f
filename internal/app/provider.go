package app

import (
	"time"

	"esign-adapter/internal/adobesign"
	commonhttp "esign-adapter/internal/common/http"
	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/common/ratelimit"
	"esign-adapter/internal/config"
	"esign-adapter/internal/idmap"
	"esign-adapter/internal/metrics"
	"esign-adapter/internal/oauth2"
)

// newAdobeSignAdapter builds the token manager, agreement client and adapter
// over one shared HTTP client.
func newAdobeSignAdapter(cfg config.AdobeSignConfig, ids idmap.Store, tokens oauth2.TokenStorage, logger logging.Logger) (*adobesign.Adapter, *oauth2.Manager, error) {
	httpClient := commonhttp.NewHTTPClient(
		commonhttp.WithConnectTimeout(cfg.ConnectionTimeout),
		commonhttp.WithReadTimeout(cfg.ReadTimeout),
	)

	manager, err := oauth2.NewManager(oauth2.Config{
		ServiceID:       adobesign.BreakerName,
		ClientID:        cfg.ClientID,
		ClientSecret:    cfg.ClientSecret,
		RefreshToken:    cfg.RefreshToken,
		TokenURL:        cfg.TokenURL(),
		DefaultLifetime: cfg.TokenLifetime(),
	},
		oauth2.WithHTTPClient(httpClient),
		oauth2.WithStorage(tokens),
		oauth2.WithLogger(logger),
		oauth2.WithRefreshObserver(func(outcome string) {
			metrics.TokenRefreshes.WithLabelValues(outcome).Inc()
		}),
	)
	if err != nil {
		return nil, nil, err
	}

	clientOpts := []adobesign.ClientOption{adobesign.WithClientLogger(logger)}
	if cfg.RateLimitRPS > 0 {
		limiter, err := ratelimit.NewLocalLimiter(ratelimit.Config{
			Enabled:           true,
			RequestsPerSecond: cfg.RateLimitRPS,
			BurstSize:         cfg.RateLimitBurst,
		})
		if err != nil {
			return nil, nil, err
		}
		clientOpts = append(clientOpts, adobesign.WithRateLimiter(limiter))
	}

	client := adobesign.NewAgreementClient(cfg.RESTBaseURL(), httpClient, clientOpts...)
	adapter, err := adobesign.NewAdapter(cfg, adobesign.NewSession(manager, ids), client, adobesign.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return adapter, manager, nil
}

// newWebhookLimiter bounds webhook callbacks per client address
func newWebhookLimiter() ratelimit.Limiter {
	limiter, err := ratelimit.NewLocalLimiter(ratelimit.Config{
		Enabled:           true,
		RequestsPerSecond: 10,
		BurstSize:         20,
		MaxKeys:           10000,
		CleanupPeriod:     10 * time.Minute,
	})
	if err != nil {
		return nil
	}
	return limiter
}
