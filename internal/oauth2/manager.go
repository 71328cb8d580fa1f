// Package oauth2 keeps a vendor access token fresh using the refresh_token grant.
//
// A Manager holds one token. GetToken returns the cached token while it has
// more than RefreshMargin left and otherwise exchanges the refresh token at
// TokenURL. Concurrent callers that find the token stale share one refresh.
package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"esign-adapter/internal/common/errors"
	commonhttp "esign-adapter/internal/common/http"
	"esign-adapter/internal/common/logging"
)

const (
	// DefaultRefreshMargin is how long before expiry a token stops being reused.
	DefaultRefreshMargin = 60 * time.Second
	// DefaultTokenLifetime applies when the token endpoint omits expires_in.
	DefaultTokenLifetime = time.Hour

	RefreshOutcomeSuccess = "success"
	RefreshOutcomeFailure = "failure"
)

// TokenResponse is the token endpoint's JSON body
type TokenResponse struct {
	AccessToken    string `json:"access_token"`
	TokenType      string `json:"token_type"`
	ExpiresIn      int64  `json:"expires_in"`
	RefreshToken   string `json:"refresh_token,omitempty"`
	APIAccessPoint string `json:"api_access_point,omitempty"`
}

// Token is an access token and its computed expiry
type Token struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry"`
}

// ValidAt reports whether the token can still be used at now with margin to spare
func (t *Token) ValidAt(now time.Time, margin time.Duration) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return now.Before(t.Expiry.Add(-margin))
}

// Config describes the refresh_token exchange
type Config struct {
	// ServiceID names the token in storage and logs.
	ServiceID    string
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
	// DefaultLifetime is used when the response carries no positive expires_in.
	DefaultLifetime time.Duration
	RefreshMargin   time.Duration
}

func (c *Config) validate() error {
	switch {
	case c.ClientID == "":
		return errors.ValidationError("client_id is required")
	case c.ClientSecret == "":
		return errors.ValidationError("client_secret is required")
	case c.RefreshToken == "":
		return errors.ValidationError("refresh_token is required")
	case c.TokenURL == "":
		return errors.ValidationError("token_url is required")
	}
	if c.ServiceID == "" {
		c.ServiceID = "default"
	}
	if c.DefaultLifetime <= 0 {
		c.DefaultLifetime = DefaultTokenLifetime
	}
	if c.RefreshMargin <= 0 {
		c.RefreshMargin = DefaultRefreshMargin
	}
	return nil
}

// Manager caches one access token and refreshes it on demand.
type Manager struct {
	config     Config
	httpClient *http.Client
	storage    TokenStorage
	logger     logging.Logger
	now        func() time.Time
	observe    func(outcome string)

	mu           sync.RWMutex
	token        *Token
	refreshToken string
	loaded       bool

	group singleflight.Group
}

// Option configures a Manager
type Option func(*Manager)

func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

// WithStorage persists refreshed tokens and loads a stored one on first use
func WithStorage(storage TokenStorage) Option {
	return func(m *Manager) {
		m.storage = storage
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRefreshObserver is called once per token endpoint call with
// RefreshOutcomeSuccess or RefreshOutcomeFailure.
func WithRefreshObserver(observe func(outcome string)) Option {
	return func(m *Manager) {
		m.observe = observe
	}
}

// NewManager validates config and builds a Manager
func NewManager(config Config, opts ...Option) (*Manager, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		config:       config,
		refreshToken: config.RefreshToken,
		now:          time.Now,
		observe:      func(string) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.httpClient == nil {
		m.httpClient = commonhttp.NewHTTPClient()
	}
	if m.logger == nil {
		m.logger = logging.GetGlobalLogger()
	}
	m.logger = m.logger.WithFields(logging.Field{"service_id", config.ServiceID})
	if m.storage == nil {
		m.loaded = true
	}

	return m, nil
}

// GetToken returns a bearer token valid for at least RefreshMargin more.
// Refresh failures are returned as authentication errors.
func (m *Manager) GetToken(ctx context.Context) (string, error) {
	m.loadStored(ctx)

	if token := m.current(); token.ValidAt(m.now(), m.config.RefreshMargin) {
		return token.AccessToken, nil
	}

	// The refresh outlives a cancelled caller so the other waiters still get a token;
	// the HTTP client timeout bounds it.
	ch := m.group.DoChan("refresh", func() (interface{}, error) {
		if token := m.current(); token.ValidAt(m.now(), m.config.RefreshMargin) {
			return token, nil
		}
		return m.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(*Token).AccessToken, nil
	}
}

// Token returns a copy of the cached token, or nil
func (m *Manager) Token() *Token {
	token := m.current()
	if token == nil {
		return nil
	}
	c := *token
	return &c
}

// Invalidate drops the cached access token so the next GetToken refreshes.
// Used after the vendor rejects a token before its computed expiry.
func (m *Manager) Invalidate(ctx context.Context) {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()

	if m.storage != nil {
		if err := m.storage.DeleteToken(ctx, m.config.ServiceID); err != nil {
			m.logger.Warn("Failed to delete stored token", logging.Err(err))
		}
	}
}

func (m *Manager) current() *Token {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// loadStored reads a persisted token once. A stored refresh token replaces the
// configured one since the vendor may have rotated it.
func (m *Manager) loadStored(ctx context.Context) {
	m.mu.RLock()
	loaded := m.loaded
	m.mu.RUnlock()
	if loaded {
		return
	}

	stored, err := m.storage.LoadToken(ctx, m.config.ServiceID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return
	}
	m.loaded = true

	if err != nil {
		m.logger.Warn("Failed to load stored token", logging.Err(err))
		return
	}
	if stored == nil {
		return
	}
	if stored.RefreshToken != "" {
		m.refreshToken = stored.RefreshToken
	}
	if m.token == nil {
		m.token = stored
	}
	m.logger.Debug("Loaded stored token", logging.Field{"expiry", stored.Expiry})
}

func (m *Manager) refresh(ctx context.Context) (*Token, error) {
	m.mu.RLock()
	refreshToken := m.refreshToken
	m.mu.RUnlock()

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", m.config.ClientID)
	data.Set("client_secret", m.config.ClientSecret)
	data.Set("refresh_token", refreshToken)

	requestedAt := m.now()
	resp, err := m.requestToken(ctx, data)
	if err != nil {
		m.observe(RefreshOutcomeFailure)
		m.logger.Error("Token refresh failed", err)
		return nil, err
	}
	m.observe(RefreshOutcomeSuccess)

	lifetime := m.config.DefaultLifetime
	if resp.ExpiresIn > 0 {
		lifetime = time.Duration(resp.ExpiresIn) * time.Second
	}
	tokenType := resp.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	token := &Token{
		AccessToken:  resp.AccessToken,
		TokenType:    tokenType,
		RefreshToken: refreshToken,
		Expiry:       requestedAt.Add(lifetime),
	}
	if resp.RefreshToken != "" {
		token.RefreshToken = resp.RefreshToken
	}

	m.mu.Lock()
	m.token = token
	m.refreshToken = token.RefreshToken
	m.mu.Unlock()

	m.logger.Info("Access token refreshed",
		logging.Field{"expiry", token.Expiry},
		logging.Field{"refresh_token_rotated", resp.RefreshToken != "" && resp.RefreshToken != refreshToken},
	)

	if m.storage != nil {
		if err := m.storage.SaveToken(ctx, m.config.ServiceID, token); err != nil {
			m.logger.Warn("Failed to persist token", logging.Err(err))
		}
	}

	return token, nil
}

func (m *Manager) requestToken(ctx context.Context, data url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, errors.AuthError("failed to create token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, errors.AuthError("token request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.AuthError("failed to read token response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return nil, errors.AuthError(
				fmt.Sprintf("token request rejected: %s - %s", errResp.Error, errResp.Description), nil,
			).WithContext("status", resp.StatusCode)
		}
		return nil, errors.AuthError(fmt.Sprintf("token request failed with status %d", resp.StatusCode), nil).
			WithContext("status", resp.StatusCode)
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, errors.AuthError("failed to decode token response", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, errors.AuthError("token response has no access_token", nil)
	}
	return &tokenResp, nil
}
