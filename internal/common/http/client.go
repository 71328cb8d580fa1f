// Package http builds the outbound *http.Client used for vendor calls.
package http

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// ClientConfig holds HTTP client configuration
type ClientConfig struct {
	// ConnectTimeout bounds the TCP dial and the TLS handshake.
	ConnectTimeout time.Duration
	// ReadTimeout bounds the wait for response headers once the request is written.
	ReadTimeout time.Duration
	// Timeout bounds the whole exchange. Zero derives it from ConnectTimeout + ReadTimeout.
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	InsecureSkipVerify  bool
	Transport           http.RoundTripper
}

// DefaultClientConfig returns a 30s connect / 60s read configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ConnectTimeout:      30 * time.Second,
		ReadTimeout:         60 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

// ClientOption modifies ClientConfig
type ClientOption func(*ClientConfig)

func WithConnectTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.ConnectTimeout = timeout
	}
}

func WithReadTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.ReadTimeout = timeout
	}
}

// WithTimeout sets an explicit overall timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

func WithMaxIdleConnsPerHost(max int) ClientOption {
	return func(c *ClientConfig) {
		c.MaxIdleConnsPerHost = max
	}
}

// WithTransport replaces the generated transport, e.g. for tests
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *ClientConfig) {
		c.Transport = transport
	}
}

func WithInsecureSkipVerify() ClientOption {
	return func(c *ClientConfig) {
		c.InsecureSkipVerify = true
	}
}

// NewHTTPClient creates an *http.Client from the default config and opts
func NewHTTPClient(opts ...ClientOption) *http.Client {
	cfg := DefaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	transport := cfg.Transport
	if transport == nil {
		dialer := &net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}
		httpTransport := &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   cfg.ConnectTimeout,
			ResponseHeaderTimeout: cfg.ReadTimeout,
			MaxIdleConns:          cfg.MaxIdleConns,
			MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:       cfg.IdleConnTimeout,
			ForceAttemptHTTP2:     true,
		}
		if cfg.InsecureSkipVerify {
			httpTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		transport = httpTransport
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = cfg.ConnectTimeout + cfg.ReadTimeout
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
