package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/envstate"
	"esign-adapter/internal/esignature"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	maxBodyBytes     = 1 << 20
)

type sendRequest struct {
	SentBy uuid.UUID `json:"sentBy"`
}

type voidRequest struct {
	Reason   string    `json:"reason"`
	VoidedBy uuid.UUID `json:"voidedBy"`
}

type existsResponse struct {
	ID     uuid.UUID `json:"id"`
	Exists bool      `json:"exists"`
}

type signingURLResponse struct {
	URL string `json:"url"`
}

func envelopeID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, errors.ValidationError("invalid envelope id")
	}
	return id, nil
}

// decodeBody reads a JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return errors.ValidationError("invalid JSON body")
	}
	return nil
}

// CreateEnvelope creates an envelope at the provider
// @Summary Create envelope
// @Description Creates the agreement at the provider and records the id mapping
// @Tags envelopes
// @Accept json
// @Produce json
// @Param envelope body esignature.Envelope true "Envelope to create"
// @Success 201 {object} esignature.Envelope
// @Failure 400 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /api/envelopes [post]
func (h *Handlers) CreateEnvelope(w http.ResponseWriter, r *http.Request) {
	var envelope esignature.Envelope
	if err := decodeBody(r, &envelope); err != nil {
		h.writeError(w, r, err)
		return
	}

	created, err := h.envelopes.CreateEnvelope(r.Context(), &envelope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.WithContext(r.Context()).Info("Envelope created",
		logging.Field{"envelope_id", created.ID.String()},
		logging.Field{"external_id", created.ExternalEnvelopeID},
	)
	writeJSON(w, http.StatusCreated, created)
}

// GetEnvelope fetches an envelope and its current provider status
// @Summary Get envelope
// @Tags envelopes
// @Produce json
// @Param id path string true "Envelope ID"
// @Success 200 {object} esignature.Envelope
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/envelopes/{id} [get]
func (h *Handlers) GetEnvelope(w http.ResponseWriter, r *http.Request) {
	id, err := envelopeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	envelope, err := h.envelopes.GetEnvelope(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.observe(r.Context(), envstate.SourceAPI, envelope)
	writeJSON(w, http.StatusOK, envelope)
}

// GetEnvelopeStatus returns the last status observed for an envelope without
// calling the provider.
// @Summary Last known envelope status
// @Tags envelopes
// @Produce json
// @Param id path string true "Envelope ID"
// @Success 200 {object} envstate.Snapshot
// @Failure 404 {object} errorResponse
// @Failure 501 {object} errorResponse
// @Router /api/envelopes/{id}/status [get]
func (h *Handlers) GetEnvelopeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := envelopeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if h.tracker == nil {
		h.writeError(w, r, errors.UnsupportedError("status tracking"))
		return
	}

	snapshot, err := h.tracker.Last(r.Context(), id)
	if err != nil {
		h.writeError(w, r, errors.InternalError("failed to read envelope status", err))
		return
	}
	if snapshot == nil {
		h.writeError(w, r, errors.NotFoundError("envelope status"))
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// @Summary Update envelope
// @Description The path id replaces any id in the body
// @Tags envelopes
// @Accept json
// @Produce json
// @Param id path string true "Envelope ID"
// @Param envelope body esignature.Envelope true "Updated fields"
// @Success 200 {object} esignature.Envelope
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/envelopes/{id} [put]
func (h *Handlers) UpdateEnvelope(w http.ResponseWriter, r *http.Request) {
	id, err := envelopeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var envelope esignature.Envelope
	if err := decodeBody(r, &envelope); err != nil {
		h.writeError(w, r, err)
		return
	}
	envelope.ID = id

	updated, err := h.envelopes.UpdateEnvelope(r.Context(), &envelope)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// @Summary Delete envelope
// @Tags envelopes
// @Param id path string true "Envelope ID"
// @Success 204
// @Failure 404 {object} errorResponse
// @Router /api/envelopes/{id} [delete]
func (h *Handlers) DeleteEnvelope(w http.ResponseWriter, r *http.Request) {
	id, err := envelopeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.envelopes.DeleteEnvelope(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendEnvelope sends a draft envelope out for signature
// @Summary Send envelope
// @Tags envelopes
// @Accept json
// @Produce json
// @Param id path string true "Envelope ID"
// @Param request body sendRequest false "Sender"
// @Success 200 {object} esignature.Envelope
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/envelopes/{id}/send [post]
func (h *Handlers) SendEnvelope(w http.ResponseWriter, r *http.Request) {
	id, err := envelopeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req sendRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	envelope, err := h.envelopes.SendEnvelope(r.Context(), id, req.SentBy)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope)
}

// VoidEnvelope cancels an envelope at the provider
// @Summary Void envelope
// @Tags envelopes
// @Accept json
// @Produce json
// @Param id path string true "Envelope ID"
// @Param request body voidRequest true "Reason and actor"
// @Success 200 {object} esignature.Envelope
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/envelopes/{id}/void [post]
func (h *Handlers) VoidEnvelope(w http.ResponseWriter, r *http.Request) {
	id, err := envelopeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req voidRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	envelope, err := h.envelopes.VoidEnvelope(r.Context(), id, req.Reason, req.VoidedBy)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope)
}

// @Summary Archive envelope
// @Tags envelopes
// @Produce json
// @Param id path string true "Envelope ID"
// @Success 200 {object} esignature.Envelope
// @Failure 404 {object} errorResponse
// @Router /api/envelopes/{id}/archive [post]
func (h *Handlers) ArchiveEnvelope(w http.ResponseWriter, r *http.Request) {
	id, err := envelopeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	envelope, err := h.envelopes.ArchiveEnvelope(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope)
}

// SyncEnvelope refreshes the envelope status from the provider
// @Summary Sync envelope status
// @Tags envelopes
// @Produce json
// @Param id path string true "Envelope ID"
// @Success 200 {object} esignature.Envelope
// @Failure 404 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Router /api/envelopes/{id}/sync [post]
func (h *Handlers) SyncEnvelope(w http.ResponseWriter, r *http.Request) {
	id, err := envelopeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	envelope, err := h.envelopes.SyncEnvelopeStatus(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.observe(r.Context(), envstate.SourceAPI, envelope)
	writeJSON(w, http.StatusOK, envelope)
}

// @Summary Resend envelope
// @Description Sends a reminder to the pending signers
// @Tags envelopes
// @Param id path string true "Envelope ID"
// @Success 202
// @Failure 404 {object} errorResponse
// @Router /api/envelopes/{id}/resend [post]
func (h *Handlers) ResendEnvelope(w http.ResponseWriter, r *http.Request) {
	id, err := envelopeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.envelopes.ResendEnvelope(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// @Summary Envelope exists
// @Tags envelopes
// @Produce json
// @Param id path string true "Envelope ID"
// @Success 200 {object} existsResponse
// @Router /api/envelopes/{id}/exists [get]
func (h *Handlers) EnvelopeExists(w http.ResponseWriter, r *http.Request) {
	id, err := envelopeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	exists, err := h.envelopes.ExistsEnvelope(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, existsResponse{ID: id, Exists: exists})
}

// GetSigningURL returns an embedded signing URL for one signer
// @Summary Embedded signing URL
// @Tags envelopes
// @Produce json
// @Param id path string true "Envelope ID"
// @Param email query string true "Signer email"
// @Param name query string false "Signer name"
// @Param clientUserId query string false "Caller's id for the signer"
// @Success 200 {object} signingURLResponse
// @Failure 400 {object} errorResponse
// @Failure 501 {object} errorResponse
// @Router /api/envelopes/{id}/signing-url [get]
func (h *Handlers) GetSigningURL(w http.ResponseWriter, r *http.Request) {
	id, err := envelopeID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	signingURL, err := h.envelopes.GetSigningURL(r.Context(), id, q.Get("email"), q.Get("name"), q.Get("clientUserId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signingURLResponse{URL: signingURL})
}

// GetEnvelopeByExternalID looks an envelope up by the provider's identifier
// @Summary Get envelope by provider id
// @Tags envelopes
// @Produce json
// @Param externalId path string true "Provider agreement ID"
// @Param provider query string false "Provider name"
// @Success 200 {object} esignature.Envelope
// @Failure 404 {object} errorResponse
// @Router /api/envelopes/external/{externalId} [get]
func (h *Handlers) GetEnvelopeByExternalID(w http.ResponseWriter, r *http.Request) {
	externalID := mux.Vars(r)["externalId"]
	provider := esignature.Provider(r.URL.Query().Get("provider"))

	envelope, err := h.envelopes.GetEnvelopeByExternalID(r.Context(), externalID, provider)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if envelope == nil {
		h.writeError(w, r, errors.NotFoundError("envelope"))
		return
	}
	writeJSON(w, http.StatusOK, envelope)
}

// ListEnvelopes filters by exactly one of status, createdBy, sentBy or provider
// @Summary List envelopes
// @Tags envelopes
// @Produce json
// @Param status query string false "Envelope status"
// @Param createdBy query string false "Creator ID"
// @Param sentBy query string false "Sender ID"
// @Param provider query string false "Provider name"
// @Param limit query int false "Maximum results (default 50, max 500)"
// @Success 200 {array} esignature.Envelope
// @Failure 400 {object} errorResponse
// @Router /api/envelopes [get]
func (h *Handlers) ListEnvelopes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var envelopes []*esignature.Envelope
	switch {
	case q.Get("status") != "":
		status, perr := esignature.ParseEnvelopeStatus(q.Get("status"))
		if perr != nil {
			h.writeError(w, r, errors.ValidationError(perr.Error()))
			return
		}
		envelopes, err = h.envelopes.GetEnvelopesByStatus(r.Context(), status, limit)
	case q.Get("createdBy") != "":
		var createdBy uuid.UUID
		if createdBy, err = parseUUIDParam("createdBy", q.Get("createdBy")); err == nil {
			envelopes, err = h.envelopes.GetEnvelopesByCreator(r.Context(), createdBy, limit)
		}
	case q.Get("sentBy") != "":
		var sentBy uuid.UUID
		if sentBy, err = parseUUIDParam("sentBy", q.Get("sentBy")); err == nil {
			envelopes, err = h.envelopes.GetEnvelopesBySender(r.Context(), sentBy, limit)
		}
	case q.Get("provider") != "":
		envelopes, err = h.envelopes.GetEnvelopesByProvider(r.Context(), esignature.Provider(q.Get("provider")), limit)
	default:
		err = errors.ValidationError("one of status, createdBy, sentBy or provider is required")
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelopes)
}

// @Summary List expiring envelopes
// @Tags envelopes
// @Produce json
// @Param from query string false "RFC3339 start, default now"
// @Param to query string false "RFC3339 end, default 7 days after from"
// @Success 200 {array} esignature.Envelope
// @Failure 400 {object} errorResponse
// @Router /api/envelopes/expiring [get]
func (h *Handlers) ListExpiringEnvelopes(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	envelopes, err := h.envelopes.GetExpiringEnvelopes(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelopes)
}

// @Summary List completed envelopes
// @Tags envelopes
// @Produce json
// @Param from query string false "RFC3339 start, default now"
// @Param to query string false "RFC3339 end, default 7 days after from"
// @Success 200 {array} esignature.Envelope
// @Failure 400 {object} errorResponse
// @Router /api/envelopes/completed [get]
func (h *Handlers) ListCompletedEnvelopes(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	envelopes, err := h.envelopes.GetCompletedEnvelopes(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelopes)
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errors.ValidationError("limit must be a positive integer")
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, nil
}

func parseUUIDParam(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.ValidationError("invalid " + name)
	}
	return id, nil
}

// parseWindow reads from and to as RFC3339. Missing bounds default to the next 7 days.
func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	from := time.Now().UTC()
	to := from.Add(7 * 24 * time.Hour)

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.ValidationError("from must be RFC3339")
		}
		from = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.ValidationError("to must be RFC3339")
		}
		to = t
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.ValidationError("to must not be before from")
	}
	return from, to, nil
}
