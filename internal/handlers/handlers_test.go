package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"esign-adapter/internal/circuitbreaker"
	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/config"
	"esign-adapter/internal/envstate"
	"esign-adapter/internal/esignature"
	"esign-adapter/internal/handlers"
	"esign-adapter/internal/oauth2"
)

// MockEnvelopePort is a testify mock of esignature.EnvelopePort
type MockEnvelopePort struct {
	mock.Mock
}

func envelopeResult(args mock.Arguments) (*esignature.Envelope, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*esignature.Envelope), args.Error(1)
}

func listResult(args mock.Arguments) ([]*esignature.Envelope, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*esignature.Envelope), args.Error(1)
}

func (m *MockEnvelopePort) CreateEnvelope(ctx context.Context, envelope *esignature.Envelope) (*esignature.Envelope, error) {
	return envelopeResult(m.Called(ctx, envelope))
}

func (m *MockEnvelopePort) GetEnvelope(ctx context.Context, id uuid.UUID) (*esignature.Envelope, error) {
	return envelopeResult(m.Called(ctx, id))
}

func (m *MockEnvelopePort) UpdateEnvelope(ctx context.Context, envelope *esignature.Envelope) (*esignature.Envelope, error) {
	return envelopeResult(m.Called(ctx, envelope))
}

func (m *MockEnvelopePort) DeleteEnvelope(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEnvelopePort) SendEnvelope(ctx context.Context, id uuid.UUID, sentBy uuid.UUID) (*esignature.Envelope, error) {
	return envelopeResult(m.Called(ctx, id, sentBy))
}

func (m *MockEnvelopePort) VoidEnvelope(ctx context.Context, id uuid.UUID, voidReason string, voidedBy uuid.UUID) (*esignature.Envelope, error) {
	return envelopeResult(m.Called(ctx, id, voidReason, voidedBy))
}

func (m *MockEnvelopePort) ArchiveEnvelope(ctx context.Context, id uuid.UUID) (*esignature.Envelope, error) {
	return envelopeResult(m.Called(ctx, id))
}

func (m *MockEnvelopePort) SyncEnvelopeStatus(ctx context.Context, id uuid.UUID) (*esignature.Envelope, error) {
	return envelopeResult(m.Called(ctx, id))
}

func (m *MockEnvelopePort) ResendEnvelope(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEnvelopePort) GetEnvelopesByStatus(ctx context.Context, status esignature.EnvelopeStatus, limit int) ([]*esignature.Envelope, error) {
	return listResult(m.Called(ctx, status, limit))
}

func (m *MockEnvelopePort) GetEnvelopesByCreator(ctx context.Context, createdBy uuid.UUID, limit int) ([]*esignature.Envelope, error) {
	return listResult(m.Called(ctx, createdBy, limit))
}

func (m *MockEnvelopePort) GetEnvelopesBySender(ctx context.Context, sentBy uuid.UUID, limit int) ([]*esignature.Envelope, error) {
	return listResult(m.Called(ctx, sentBy, limit))
}

func (m *MockEnvelopePort) GetEnvelopesByProvider(ctx context.Context, provider esignature.Provider, limit int) ([]*esignature.Envelope, error) {
	return listResult(m.Called(ctx, provider, limit))
}

func (m *MockEnvelopePort) GetExpiringEnvelopes(ctx context.Context, from, to time.Time) ([]*esignature.Envelope, error) {
	return listResult(m.Called(ctx, from, to))
}

func (m *MockEnvelopePort) GetCompletedEnvelopes(ctx context.Context, from, to time.Time) ([]*esignature.Envelope, error) {
	return listResult(m.Called(ctx, from, to))
}

func (m *MockEnvelopePort) ExistsEnvelope(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnvelopePort) GetEnvelopeByExternalID(ctx context.Context, externalID string, provider esignature.Provider) (*esignature.Envelope, error) {
	return envelopeResult(m.Called(ctx, externalID, provider))
}

func (m *MockEnvelopePort) GetSigningURL(ctx context.Context, id uuid.UUID, signerEmail, signerName, clientUserID string) (string, error) {
	args := m.Called(ctx, id, signerEmail, signerName, clientUserID)
	return args.String(0), args.Error(1)
}

type stubBreaker struct {
	state string
}

func (s stubBreaker) Stats() circuitbreaker.Stats {
	return circuitbreaker.Stats{Name: "adobe-sign", State: s.state}
}

func testConfig() *config.Config {
	return &config.Config{
		ESignatureProvider: config.ProviderAdobeSign,
		AdobeSign: config.AdobeSignConfig{
			ClientID:      "client-id",
			WebhookSecret: "hook-secret",
		},
	}
}

func newRouter(h *handlers.Handlers) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/webhooks/adobe-sign", h.HandleAdobeSignWebhook).Methods("GET", "POST")
	router.HandleFunc("/api/envelopes", h.CreateEnvelope).Methods("POST")
	router.HandleFunc("/api/envelopes", h.ListEnvelopes).Methods("GET")
	router.HandleFunc("/api/envelopes/expiring", h.ListExpiringEnvelopes).Methods("GET")
	router.HandleFunc("/api/envelopes/completed", h.ListCompletedEnvelopes).Methods("GET")
	router.HandleFunc("/api/envelopes/external/{externalId}", h.GetEnvelopeByExternalID).Methods("GET")
	router.HandleFunc("/api/envelopes/{id}", h.GetEnvelope).Methods("GET")
	router.HandleFunc("/api/envelopes/{id}", h.UpdateEnvelope).Methods("PUT")
	router.HandleFunc("/api/envelopes/{id}", h.DeleteEnvelope).Methods("DELETE")
	router.HandleFunc("/api/envelopes/{id}/exists", h.EnvelopeExists).Methods("GET")
	router.HandleFunc("/api/envelopes/{id}/status", h.GetEnvelopeStatus).Methods("GET")
	router.HandleFunc("/api/envelopes/{id}/signing-url", h.GetSigningURL).Methods("GET")
	router.HandleFunc("/api/envelopes/{id}/send", h.SendEnvelope).Methods("POST")
	router.HandleFunc("/api/envelopes/{id}/void", h.VoidEnvelope).Methods("POST")
	router.HandleFunc("/api/envelopes/{id}/archive", h.ArchiveEnvelope).Methods("POST")
	router.HandleFunc("/api/envelopes/{id}/sync", h.SyncEnvelope).Methods("POST")
	router.HandleFunc("/api/envelopes/{id}/resend", h.ResendEnvelope).Methods("POST")
	return router
}

func serve(router http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateEnvelope(t *testing.T) {
	port := new(MockEnvelopePort)
	id := uuid.New()
	port.On("CreateEnvelope", mock.Anything, mock.MatchedBy(func(e *esignature.Envelope) bool {
		return e.Title == "NDA" && e.Description == "Please sign"
	})).Return(&esignature.Envelope{ID: id, Title: "NDA", Status: esignature.StatusDraft, ExternalEnvelopeID: "AG-1"}, nil)

	router := newRouter(handlers.New(port, testConfig()))
	rec := serve(router, "POST", "/api/envelopes", `{"title":"NDA","description":"Please sign"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got esignature.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "AG-1", got.ExternalEnvelopeID)
	port.AssertExpectations(t)
}

func TestCreateEnvelope_InvalidJSON(t *testing.T) {
	port := new(MockEnvelopePort)
	router := newRouter(handlers.New(port, testConfig()))

	rec := serve(router, "POST", "/api/envelopes", `{"title":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decodeError(t, rec)["type"])
	port.AssertNotCalled(t, "CreateEnvelope", mock.Anything, mock.Anything)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errors.NotFoundError("envelope"), http.StatusNotFound},
		{"validation", errors.ValidationError("bad status"), http.StatusBadRequest},
		{"unsupported", errors.UnsupportedError("signing url"), http.StatusNotImplemented},
		{"auth", errors.AuthError("token refresh failed", nil), http.StatusBadGateway},
		{"remote", errors.RemoteError("get agreement failed", 500, nil), http.StatusBadGateway},
		{"connection", errors.ConnectionError("dial failed", nil), http.StatusBadGateway},
		{"circuit open", errors.CircuitOpenError("adobe-sign", nil), http.StatusServiceUnavailable},
		{"rate limit", errors.RateLimitError("adobe sign"), http.StatusTooManyRequests},
		{"plain error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := new(MockEnvelopePort)
			id := uuid.New()
			port.On("GetEnvelope", mock.Anything, id).Return(nil, tt.err)

			rec := serve(newRouter(handlers.New(port, testConfig())), "GET", "/api/envelopes/"+id.String(), "")

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, string(errors.GetType(tt.err)), decodeError(t, rec)["type"])
		})
	}
}

func TestGetEnvelope_InvalidID(t *testing.T) {
	port := new(MockEnvelopePort)
	rec := serve(newRouter(handlers.New(port, testConfig())), "GET", "/api/envelopes/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	port.AssertNotCalled(t, "GetEnvelope", mock.Anything, mock.Anything)
}

func TestUpdateEnvelope_UsesPathID(t *testing.T) {
	port := new(MockEnvelopePort)
	id := uuid.New()
	port.On("UpdateEnvelope", mock.Anything, mock.MatchedBy(func(e *esignature.Envelope) bool {
		return e.ID == id && e.Title == "Renamed"
	})).Return(&esignature.Envelope{ID: id, Status: esignature.StatusSent}, nil)

	rec := serve(newRouter(handlers.New(port, testConfig())), "PUT", "/api/envelopes/"+id.String(),
		`{"id":"`+uuid.NewString()+`","title":"Renamed"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	port.AssertExpectations(t)
}

func TestDeleteEnvelope(t *testing.T) {
	port := new(MockEnvelopePort)
	id := uuid.New()
	port.On("DeleteEnvelope", mock.Anything, id).Return(nil)

	rec := serve(newRouter(handlers.New(port, testConfig())), "DELETE", "/api/envelopes/"+id.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	port.AssertExpectations(t)
}

func TestStateChanges(t *testing.T) {
	id := uuid.New()
	actor := uuid.New()

	t.Run("send", func(t *testing.T) {
		port := new(MockEnvelopePort)
		port.On("SendEnvelope", mock.Anything, id, actor).Return(&esignature.Envelope{ID: id, Status: esignature.StatusSent}, nil)

		rec := serve(newRouter(handlers.New(port, testConfig())), "POST", "/api/envelopes/"+id.String()+"/send",
			`{"sentBy":"`+actor.String()+`"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		port.AssertExpectations(t)
	})

	t.Run("void", func(t *testing.T) {
		port := new(MockEnvelopePort)
		port.On("VoidEnvelope", mock.Anything, id, "signer left", actor).Return(&esignature.Envelope{ID: id, Status: esignature.StatusVoided}, nil)

		rec := serve(newRouter(handlers.New(port, testConfig())), "POST", "/api/envelopes/"+id.String()+"/void",
			`{"reason":"signer left","voidedBy":"`+actor.String()+`"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		port.AssertExpectations(t)
	})

	t.Run("archive without body", func(t *testing.T) {
		port := new(MockEnvelopePort)
		port.On("ArchiveEnvelope", mock.Anything, id).Return(&esignature.Envelope{ID: id, Status: esignature.StatusArchived}, nil)

		rec := serve(newRouter(handlers.New(port, testConfig())), "POST", "/api/envelopes/"+id.String()+"/archive", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		port.AssertExpectations(t)
	})

	t.Run("sync", func(t *testing.T) {
		port := new(MockEnvelopePort)
		port.On("SyncEnvelopeStatus", mock.Anything, id).Return(&esignature.Envelope{ID: id, Status: esignature.StatusCompleted}, nil)

		rec := serve(newRouter(handlers.New(port, testConfig())), "POST", "/api/envelopes/"+id.String()+"/sync", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		port.AssertExpectations(t)
	})

	t.Run("resend", func(t *testing.T) {
		port := new(MockEnvelopePort)
		port.On("ResendEnvelope", mock.Anything, id).Return(nil)

		rec := serve(newRouter(handlers.New(port, testConfig())), "POST", "/api/envelopes/"+id.String()+"/resend", "")

		assert.Equal(t, http.StatusAccepted, rec.Code)
		port.AssertExpectations(t)
	})
}

func TestEnvelopeExists(t *testing.T) {
	port := new(MockEnvelopePort)
	id := uuid.New()
	port.On("ExistsEnvelope", mock.Anything, id).Return(false, nil)

	rec := serve(newRouter(handlers.New(port, testConfig())), "GET", "/api/envelopes/"+id.String()+"/exists", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+id.String()+`","exists":false}`, rec.Body.String())
}

func TestGetSigningURL_Unsupported(t *testing.T) {
	port := new(MockEnvelopePort)
	id := uuid.New()
	port.On("GetSigningURL", mock.Anything, id, "a@example.com", "Ann", "").
		Return("", errors.UnsupportedError("embedded signing URL for Adobe Sign"))

	rec := serve(newRouter(handlers.New(port, testConfig())), "GET",
		"/api/envelopes/"+id.String()+"/signing-url?email=a@example.com&name=Ann", "")

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	port.AssertExpectations(t)
}

func TestGetEnvelopeByExternalID(t *testing.T) {
	port := new(MockEnvelopePort)
	id := uuid.New()
	port.On("GetEnvelopeByExternalID", mock.Anything, "AG-1", esignature.ProviderAdobeSign).
		Return(&esignature.Envelope{ID: id}, nil)
	port.On("GetEnvelopeByExternalID", mock.Anything, "AG-2", esignature.Provider("")).Return(nil, nil)
	router := newRouter(handlers.New(port, testConfig()))

	rec := serve(router, "GET", "/api/envelopes/external/AG-1?provider=ADOBE_SIGN", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, "GET", "/api/envelopes/external/AG-2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	port.AssertExpectations(t)
}

func TestListEnvelopes(t *testing.T) {
	creator := uuid.New()
	tests := []struct {
		name   string
		query  string
		method string
		args   []interface{}
	}{
		{"by status", "?status=sent", "GetEnvelopesByStatus", []interface{}{esignature.StatusSent, 50}},
		{"by creator", "?createdBy=" + creator.String() + "&limit=10", "GetEnvelopesByCreator", []interface{}{creator, 10}},
		{"by sender", "?sentBy=" + creator.String() + "&limit=9999", "GetEnvelopesBySender", []interface{}{creator, 500}},
		{"by provider", "?provider=ADOBE_SIGN", "GetEnvelopesByProvider", []interface{}{esignature.ProviderAdobeSign, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := new(MockEnvelopePort)
			args := append([]interface{}{mock.Anything}, tt.args...)
			port.On(tt.method, args...).Return([]*esignature.Envelope{}, nil)

			rec := serve(newRouter(handlers.New(port, testConfig())), "GET", "/api/envelopes"+tt.query, "")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `[]`, rec.Body.String())
			port.AssertExpectations(t)
		})
	}
}

func TestListEnvelopes_BadFilters(t *testing.T) {
	port := new(MockEnvelopePort)
	router := newRouter(handlers.New(port, testConfig()))

	for _, query := range []string{"", "?status=PENDING", "?createdBy=bob", "?status=SENT&limit=-1"} {
		rec := serve(router, "GET", "/api/envelopes"+query, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestListWindows(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)

	port := new(MockEnvelopePort)
	port.On("GetExpiringEnvelopes", mock.Anything, from, to).Return([]*esignature.Envelope{}, nil)
	port.On("GetCompletedEnvelopes", mock.Anything, from, to).Return([]*esignature.Envelope{}, nil)
	router := newRouter(handlers.New(port, testConfig()))

	query := "?from=2026-01-01T00:00:00Z&to=2026-01-03T00:00:00Z"
	assert.Equal(t, http.StatusOK, serve(router, "GET", "/api/envelopes/expiring"+query, "").Code)
	assert.Equal(t, http.StatusOK, serve(router, "GET", "/api/envelopes/completed"+query, "").Code)
	port.AssertExpectations(t)

	assert.Equal(t, http.StatusBadRequest, serve(router, "GET", "/api/envelopes/expiring?from=yesterday", "").Code)
	assert.Equal(t, http.StatusBadRequest,
		serve(router, "GET", "/api/envelopes/completed?from=2026-01-03T00:00:00Z&to=2026-01-01T00:00:00Z", "").Code)
}

func TestHealthCheck(t *testing.T) {
	port := new(MockEnvelopePort)

	t.Run("closed breaker", func(t *testing.T) {
		h := handlers.New(port, testConfig(), handlers.WithBreaker(stubBreaker{state: "closed"}))
		rec := serve(newRouter(h), "GET", "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "adobe-sign", body["provider"])
	})

	t.Run("open breaker degrades", func(t *testing.T) {
		h := handlers.New(port, testConfig(), handlers.WithBreaker(stubBreaker{state: "open"}))
		rec := serve(newRouter(h), "GET", "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	})

	t.Run("failed dependency", func(t *testing.T) {
		h := handlers.New(port, testConfig(),
			handlers.WithHealthCheck("redis", func(context.Context) error { return assert.AnError }),
			handlers.WithHealthCheck("postgres", func(context.Context) error { return nil }),
		)
		rec := serve(newRouter(h), "GET", "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body struct {
			Status       string            `json:"status"`
			Dependencies map[string]string `json:"dependencies"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "ok", body.Dependencies["postgres"])
		assert.NotEqual(t, "ok", body.Dependencies["redis"])
	})

	t.Run("token state without the token", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour).UTC()
		tokens := stubTokens{token: &oauth2.Token{AccessToken: "secret-access-token", Expiry: expiry}}
		rec := serve(newRouter(handlers.New(port, testConfig(), handlers.WithTokenSource(tokens))), "GET", "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret-access-token")
		var body struct {
			Token struct {
				Cached    bool       `json:"cached"`
				Valid     bool       `json:"valid"`
				ExpiresAt *time.Time `json:"expiresAt"`
			} `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Token.Cached)
		assert.True(t, body.Token.Valid)
		require.NotNil(t, body.Token.ExpiresAt)
		assert.WithinDuration(t, expiry, *body.Token.ExpiresAt, time.Second)
	})

	t.Run("no token cached yet", func(t *testing.T) {
		rec := serve(newRouter(handlers.New(port, testConfig(), handlers.WithTokenSource(stubTokens{}))), "GET", "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token":{"cached":false,"valid":false}`)
	})
}

type stubTokens struct{ token *oauth2.Token }

func (s stubTokens) Token() *oauth2.Token { return s.token }

func TestEnvelopeStatus_RecordedByReads(t *testing.T) {
	port := new(MockEnvelopePort)
	id := uuid.New()
	port.On("GetEnvelope", mock.Anything, id).
		Return(&esignature.Envelope{ID: id, Status: esignature.StatusSent}, nil).Once()
	port.On("SyncEnvelopeStatus", mock.Anything, id).
		Return(&esignature.Envelope{ID: id, Status: esignature.StatusCompleted}, nil).Once()

	tracker := envstate.NewTracker(envstate.NewMemoryStore())
	router := newRouter(handlers.New(port, testConfig(), handlers.WithStatusTracker(tracker)))

	assert.Equal(t, http.StatusNotFound, serve(router, "GET", "/api/envelopes/"+id.String()+"/status", "").Code)

	require.Equal(t, http.StatusOK, serve(router, "GET", "/api/envelopes/"+id.String(), "").Code)
	rec := serve(router, "GET", "/api/envelopes/"+id.String()+"/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot envstate.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, esignature.StatusSent, snapshot.Status)
	assert.Equal(t, envstate.SourceAPI, snapshot.Source)

	require.Equal(t, http.StatusOK, serve(router, "POST", "/api/envelopes/"+id.String()+"/sync", "").Code)
	last, err := tracker.Last(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, esignature.StatusCompleted, last.Status)
	port.AssertExpectations(t)
}

func TestEnvelopeStatus_TrackingDisabled(t *testing.T) {
	router := newRouter(handlers.New(new(MockEnvelopePort), testConfig()))

	rec := serve(router, "GET", "/api/envelopes/"+uuid.NewString()+"/status", "")

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "unsupported", decodeError(t, rec)["type"])
}
