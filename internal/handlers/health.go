package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"esign-adapter/internal/circuitbreaker"
)

const healthCheckTimeout = 2 * time.Second

type healthResponse struct {
	Status       string                `json:"status"`
	Provider     string                `json:"provider"`
	Timestamp    time.Time             `json:"timestamp"`
	Breaker      *circuitbreaker.Stats `json:"breaker,omitempty"`
	Token        *tokenHealth          `json:"token,omitempty"`
	Dependencies map[string]string     `json:"dependencies,omitempty"`
}

// tokenHealth describes the cached vendor token, never the token itself
type tokenHealth struct {
	Cached    bool       `json:"cached"`
	Valid     bool       `json:"valid"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// HealthCheck reports the vendor breaker and every registered dependency.
// An open breaker degrades the service without failing it; a failed dependency
// returns 503.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "healthy",
		Provider:  h.config.ESignatureProvider,
		Timestamp: time.Now().UTC(),
	}
	status := http.StatusOK

	if h.breaker != nil {
		stats := h.breaker.Stats()
		resp.Breaker = &stats
		if stats.State != circuitbreaker.StateClosed.String() {
			resp.Status = "degraded"
		}
	}

	if h.tokens != nil {
		resp.Token = &tokenHealth{}
		if token := h.tokens.Token(); token != nil {
			expiry := token.Expiry.UTC()
			resp.Token.Cached = true
			resp.Token.Valid = token.ValidAt(resp.Timestamp, 0)
			resp.Token.ExpiresAt = &expiry
		}
	}

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		names := make([]string, 0, len(h.checks))
		for name := range h.checks {
			names = append(names, name)
		}
		sort.Strings(names)

		resp.Dependencies = make(map[string]string, len(names))
		for _, name := range names {
			if err := h.checks[name](ctx); err != nil {
				resp.Dependencies[name] = err.Error()
				resp.Status = "unhealthy"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Dependencies[name] = "ok"
		}
	}

	writeJSON(w, status, resp)
}
