package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/envstate"
	"esign-adapter/internal/esignature"
	"esign-adapter/internal/metrics"
)

// ClientIDHeader carries the Adobe Sign application id on webhook calls
const ClientIDHeader = "X-AdobeSign-ClientId"

// WebhookEvent is the part of an Adobe Sign notification the adapter reads
type WebhookEvent struct {
	WebhookID string `json:"webhookId"`
	Event     string `json:"event"`
	EventDate string `json:"eventDate"`
	Agreement *struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"agreement"`
}

type verificationResponse struct {
	ClientID string `json:"xAdobeSignClientId"`
}

// HandleAdobeSignWebhook answers the vendor's verification handshake and
// resyncs the agreement named in each notification after acknowledging it.
// @Summary Adobe Sign webhook
// @Description GET answers the verification handshake. POST acknowledges a notification and refreshes the named agreement in the background.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param secret query string false "Shared webhook secret"
// @Param X-AdobeSign-ClientId header string true "Adobe Sign application id"
// @Success 200 {object} verificationResponse
// @Failure 401 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Router /webhooks/adobe-sign [get]
// @Router /webhooks/adobe-sign [post]
func (h *Handlers) HandleAdobeSignWebhook(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithContext(r.Context())

	if h.webhookLimiter != nil && !h.webhookLimiter.TryAcquireForKey(h.clientAddr(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many webhook calls", Type: string(errors.ErrTypeRateLimit)})
		return
	}

	cfg := h.config.AdobeSign
	if cfg.WebhookSecret != "" {
		secret := r.URL.Query().Get("secret")
		if subtle.ConstantTimeCompare([]byte(secret), []byte(cfg.WebhookSecret)) != 1 {
			logger.Warn("Webhook rejected: bad secret", logging.Field{"remote_addr", r.RemoteAddr})
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid webhook secret", Type: string(errors.ErrTypeAuth)})
			return
		}
	}

	clientID := r.Header.Get(ClientIDHeader)
	if clientID != cfg.ClientID {
		logger.Warn("Webhook rejected: unknown client id", logging.Field{"client_id", clientID})
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unknown client id", Type: string(errors.ErrTypeAuth)})
		return
	}
	w.Header().Set(ClientIDHeader, clientID)

	var event *WebhookEvent
	if r.Method == http.MethodPost {
		event = h.readWebhookEvent(r)
	}

	writeJSON(w, http.StatusOK, verificationResponse{ClientID: clientID})

	if event != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.webhookSyncTimeout)
		h.webhookSyncs.Add(1)
		go func() {
			defer h.webhookSyncs.Done()
			defer cancel()
			h.syncWebhookAgreement(ctx, event)
		}()
	}
}

// readWebhookEvent returns the agreement event to sync, or nil. It never fails
// the callback: Adobe Sign disables webhooks that keep returning errors, and
// the scheduled sync covers missed events.
func (h *Handlers) readWebhookEvent(r *http.Request) *WebhookEvent {
	logger := h.logger.WithContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		logger.Warn("Failed to read webhook body", logging.Err(err))
		return nil
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Warn("Ignoring malformed webhook payload", logging.Err(err))
		metrics.WebhookEvents.WithLabelValues("malformed").Inc()
		return nil
	}
	metrics.WebhookEvents.WithLabelValues(eventLabel(event.Event)).Inc()

	if !strings.HasPrefix(event.Event, "AGREEMENT_") || event.Agreement == nil || event.Agreement.ID == "" {
		logger.Debug("Ignoring webhook event", logging.Field{"event", event.Event})
		return nil
	}
	return &event
}

func (h *Handlers) syncWebhookAgreement(ctx context.Context, event *WebhookEvent) {
	logger := h.logger.WithContext(ctx)

	envelope, err := h.envelopes.GetEnvelopeByExternalID(ctx, event.Agreement.ID, esignature.ProviderAdobeSign)
	switch {
	case err != nil:
		metrics.StatusSyncs.WithLabelValues("webhook", "failure").Inc()
		logger.Error("Webhook status sync failed", err,
			logging.Field{"event", event.Event},
			logging.Field{"external_id", event.Agreement.ID},
		)
	case envelope == nil:
		metrics.StatusSyncs.WithLabelValues("webhook", "skipped").Inc()
		logger.Debug("Webhook for unmapped agreement", logging.Field{"external_id", event.Agreement.ID})
	default:
		metrics.StatusSyncs.WithLabelValues("webhook", "success").Inc()
		h.observe(ctx, envstate.SourceWebhook, envelope)
		logger.Info("Envelope status synced from webhook",
			logging.Field{"event", event.Event},
			logging.Field{"envelope_id", envelope.ID.String()},
			logging.Field{"status", string(envelope.Status)},
		)
	}
}

// eventLabel keeps the metric label set bounded to the vendor's event names
func eventLabel(event string) string {
	if event == "" || len(event) > 64 || strings.ToUpper(event) != event {
		return "other"
	}
	return event
}

// clientAddr keys the webhook limiter on the connection's address. When that
// address is a trusted proxy, X-Forwarded-For is walked from the right and the
// first hop that is not itself a trusted proxy is used.
func (h *Handlers) clientAddr(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}

	addr, err := netip.ParseAddr(remote)
	if err != nil || !h.trustedProxy(addr) {
		return remote
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	client := remote
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		client = hop.Unmap().String()
		if !h.trustedProxy(hop) {
			break
		}
	}
	return client
}

func (h *Handlers) trustedProxy(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range h.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
