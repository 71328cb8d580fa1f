// Package adobesign implements the envelope port on top of the Adobe Sign
// REST API (agreements).
package adobesign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/common/ratelimit"
	"esign-adapter/internal/metrics"
)

const maxResponseBytes = 4 << 20

// AgreementClient issues bearer-authenticated JSON calls against
// {baseURL}/api/rest/{version}/agreements.
type AgreementClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    ratelimit.Limiter
	logger     logging.Logger
}

type ClientOption func(*AgreementClient)

// WithRateLimiter makes every request wait for limiter first
func WithRateLimiter(limiter ratelimit.Limiter) ClientOption {
	return func(c *AgreementClient) {
		c.limiter = limiter
	}
}

func WithClientLogger(logger logging.Logger) ClientOption {
	return func(c *AgreementClient) {
		c.logger = logger
	}
}

// NewAgreementClient builds a client for restBaseURL, e.g.
// https://api.na1.adobesign.com/api/rest/v6.
func NewAgreementClient(restBaseURL string, httpClient *http.Client, opts ...ClientOption) *AgreementClient {
	c := &AgreementClient{
		baseURL:    strings.TrimRight(restBaseURL, "/"),
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = logging.GetGlobalLogger()
	}
	return c
}

// CreateAgreement creates an agreement and returns its vendor id
func (c *AgreementClient) CreateAgreement(ctx context.Context, token string, request AgreementRequest) (string, error) {
	var resp agreementCreationResponse
	if err := c.do(ctx, "create_agreement", http.MethodPost, "/agreements", token, request, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.RemoteError("create agreement response has no id", http.StatusOK, nil)
	}
	return resp.ID, nil
}

// GetAgreement reads one agreement
func (c *AgreementClient) GetAgreement(ctx context.Context, token, agreementID string) (*AgreementInfo, error) {
	var info AgreementInfo
	if err := c.do(ctx, "get_agreement", http.MethodGet, "/agreements/"+url.PathEscape(agreementID), token, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateState moves an agreement to request.State, e.g. IN_PROCESS or CANCELLED
func (c *AgreementClient) UpdateState(ctx context.Context, token, agreementID string, request AgreementStateRequest) error {
	return c.do(ctx, "update_state", http.MethodPut, "/agreements/"+url.PathEscape(agreementID)+"/state", token, request, nil)
}

// UpdateVisibility shows or hides the agreement for the calling user
func (c *AgreementClient) UpdateVisibility(ctx context.Context, token, agreementID, visibility string) error {
	return c.do(ctx, "update_visibility", http.MethodPut, "/agreements/"+url.PathEscape(agreementID)+"/me/visibility", token,
		visibilityRequest{Visibility: visibility}, nil)
}

func (c *AgreementClient) do(ctx context.Context, operation, method, path, token string, body, out interface{}) (err error) {
	if c.limiter != nil {
		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.RateLimitError("adobe sign")
		}
	}

	start := time.Now()
	defer func() { metrics.ObserveVendorCall(operation, start, err) }()

	var reader io.Reader
	if body != nil {
		payload, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return errors.InternalError("failed to encode request body", marshalErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.InternalError("failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.ConnectionError(fmt.Sprintf("%s request failed", operation), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.ConnectionError("failed to read response body", err)
	}

	c.logger.WithContext(ctx).Debug("Adobe Sign call completed",
		logging.Field{"operation", operation},
		logging.Field{"status", resp.StatusCode},
		logging.Field{"duration", time.Since(start)},
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(operation, resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.RemoteError(fmt.Sprintf("failed to decode %s response", operation), resp.StatusCode, err)
	}
	return nil
}

func statusError(operation string, status int, body []byte) error {
	var vendorErr vendorError
	_ = json.Unmarshal(body, &vendorErr)

	var appErr *errors.AppError
	switch status {
	case http.StatusUnauthorized:
		appErr = errors.AuthError("access token rejected", nil)
		appErr.StatusCode = status
	case http.StatusNotFound:
		appErr = errors.NotFoundError("agreement")
		appErr.StatusCode = status
	default:
		appErr = errors.RemoteError(fmt.Sprintf("%s failed", operation), status, nil)
	}
	if vendorErr.Code != "" {
		appErr.WithCode(vendorErr.Code)
	}
	if vendorErr.Message != "" {
		appErr.WithContext("vendor_message", vendorErr.Message)
	}
	return appErr
}
