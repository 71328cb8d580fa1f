package adobesign

import (
	"context"
	"time"

	"github.com/google/uuid"

	"esign-adapter/internal/circuitbreaker"
	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/common/logging"
	"esign-adapter/internal/common/utils"
	"esign-adapter/internal/config"
	"esign-adapter/internal/esignature"
	"esign-adapter/internal/metrics"
)

const BreakerName = "adobe-sign"

var _ esignature.EnvelopePort = (*Adapter)(nil)

// Adapter implements esignature.EnvelopePort against Adobe Sign agreements.
//
// Vendor calls go through a circuit breaker and a fixed-backoff retry.
// Operations on an envelope this adapter never created fail with a
// not_found error before any network call.
type Adapter struct {
	session  *Session
	client   *AgreementClient
	exec     *executor
	breaker  *circuitbreaker.GoBreakerAdapter
	config   config.AdobeSignConfig
	logger   logging.Logger
	now      func() time.Time
	docs     esignature.DocumentPort
	contents esignature.DocumentContentPort

	breakerConfig circuitbreaker.Config
}

type Option func(*Adapter)

func WithLogger(logger logging.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithClock replaces time.Now for created/sent/voided timestamps
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

// WithBreakerConfig overrides the default 50% / 10 calls / 30s breaker
func WithBreakerConfig(cfg circuitbreaker.Config) Option {
	return func(a *Adapter) {
		a.breakerConfig = cfg
	}
}

// WithDocumentPorts injects the document collaborators. They are kept for
// attaching documents to agreements and are not called yet.
func WithDocumentPorts(docs esignature.DocumentPort, contents esignature.DocumentContentPort) Option {
	return func(a *Adapter) {
		a.docs = docs
		a.contents = contents
	}
}

// NewAdapter wires an adapter. cfg supplies the retry policy.
func NewAdapter(cfg config.AdobeSignConfig, session *Session, client *AgreementClient, opts ...Option) (*Adapter, error) {
	if session == nil || client == nil {
		return nil, errors.ConfigError("adobe sign adapter requires a session and a client")
	}

	a := &Adapter{
		session:       session,
		client:        client,
		config:        cfg,
		now:           time.Now,
		breakerConfig: circuitbreaker.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.GetGlobalLogger()
	}
	a.logger = a.logger.WithFields(logging.Field{"provider", string(esignature.ProviderAdobeSign)})

	breakerConfig := a.breakerConfig
	userHook := breakerConfig.OnStateChange
	breakerConfig.OnStateChange = func(name string, from, to circuitbreaker.State) {
		metrics.SetBreakerState(name, to.String())
		if userHook != nil {
			userHook(name, from, to)
		}
	}
	a.breaker = circuitbreaker.NewGoBreaker(BreakerName, breakerConfig, a.logger)
	metrics.SetBreakerState(BreakerName, a.breaker.State().String())

	a.exec = newExecutor(a.breaker, utils.FixedRetryConfig(cfg.MaxRetries, cfg.RetryBackoff), session, a.logger)
	return a, nil
}

// Breaker exposes the breaker for health reporting
func (a *Adapter) Breaker() *circuitbreaker.GoBreakerAdapter {
	return a.breaker
}

func (a *Adapter) CreateEnvelope(ctx context.Context, envelope *esignature.Envelope) (*esignature.Envelope, error) {
	if envelope == nil {
		return nil, errors.ValidationError("envelope is required")
	}

	created := envelope.Clone()
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	request := buildAgreementRequest(created)

	var agreementID string
	err := a.exec.run(ctx, func(token string) error {
		id, err := a.client.CreateAgreement(ctx, token, request)
		if err != nil {
			return err
		}
		agreementID = id
		return nil
	})
	if err != nil {
		a.logger.WithContext(ctx).Error("Failed to create agreement", err,
			logging.Field{"envelope_id", created.ID.String()},
		)
		return nil, err
	}

	if err := a.session.IDs().Put(ctx, created.ID, agreementID); err != nil {
		return nil, errors.InternalError("failed to record envelope id mapping", err).
			WithContext("agreement_id", agreementID)
	}

	now := a.now().UTC()
	created.Provider = esignature.ProviderAdobeSign
	created.Status = esignature.StatusDraft
	created.ExternalEnvelopeID = agreementID
	created.CreatedAt = &now

	a.logger.WithContext(ctx).Info("Agreement created",
		logging.Field{"envelope_id", created.ID.String()},
		logging.Field{"agreement_id", agreementID},
	)
	return created, nil
}

func (a *Adapter) GetEnvelope(ctx context.Context, id uuid.UUID) (*esignature.Envelope, error) {
	agreementID, err := a.agreementID(ctx, id)
	if err != nil {
		return nil, err
	}

	var info *AgreementInfo
	err = a.exec.run(ctx, func(token string) error {
		got, err := a.client.GetAgreement(ctx, token, agreementID)
		if err != nil {
			return err
		}
		info = got
		return nil
	})
	if err != nil {
		return nil, err
	}

	status, err := mapAgreementStatus(info.Status)
	if err != nil {
		return nil, err
	}

	return &esignature.Envelope{
		ID:                 id,
		Title:              info.Name,
		Description:        info.Message,
		Status:             status,
		Provider:           esignature.ProviderAdobeSign,
		ExternalEnvelopeID: agreementID,
		CreatedAt:          parseVendorTime(info.CreatedDate),
		ExpiresAt:          parseVendorTime(info.ExpirationTime),
	}, nil
}

// UpdateEnvelope re-reads the agreement. The vendor has no partial update for
// the fields this adapter maps.
func (a *Adapter) UpdateEnvelope(ctx context.Context, envelope *esignature.Envelope) (*esignature.Envelope, error) {
	if envelope == nil {
		return nil, errors.ValidationError("envelope is required")
	}
	return a.GetEnvelope(ctx, envelope.ID)
}

func (a *Adapter) DeleteEnvelope(ctx context.Context, id uuid.UUID) error {
	return nil
}

// SendEnvelope moves the agreement out of draft so participants are notified
func (a *Adapter) SendEnvelope(ctx context.Context, id uuid.UUID, sentBy uuid.UUID) (*esignature.Envelope, error) {
	if err := a.changeState(ctx, id, AgreementStateRequest{State: StateInProcess}); err != nil {
		return nil, err
	}

	envelope, err := a.GetEnvelope(ctx, id)
	if err != nil {
		return nil, err
	}
	now := a.now().UTC()
	envelope.SentBy = &sentBy
	envelope.SentAt = &now
	return envelope, nil
}

// VoidEnvelope cancels the agreement with voidReason as the cancellation comment
func (a *Adapter) VoidEnvelope(ctx context.Context, id uuid.UUID, voidReason string, voidedBy uuid.UUID) (*esignature.Envelope, error) {
	request := AgreementStateRequest{
		State: StateCancelled,
		AgreementCancellationInfo: &AgreementCancellationInfo{
			Comment:      voidReason,
			NotifyOthers: true,
		},
	}
	if err := a.changeState(ctx, id, request); err != nil {
		return nil, err
	}

	envelope, err := a.GetEnvelope(ctx, id)
	if err != nil {
		return nil, err
	}
	now := a.now().UTC()
	envelope.VoidedBy = &voidedBy
	envelope.VoidReason = voidReason
	envelope.VoidedAt = &now
	return envelope, nil
}

// ArchiveEnvelope hides the agreement from the integration user's views
func (a *Adapter) ArchiveEnvelope(ctx context.Context, id uuid.UUID) (*esignature.Envelope, error) {
	agreementID, err := a.agreementID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = a.exec.run(ctx, func(token string) error {
		return a.client.UpdateVisibility(ctx, token, agreementID, VisibilityHide)
	})
	if err != nil {
		return nil, err
	}
	return a.GetEnvelope(ctx, id)
}

func (a *Adapter) SyncEnvelopeStatus(ctx context.Context, id uuid.UUID) (*esignature.Envelope, error) {
	return a.GetEnvelope(ctx, id)
}

func (a *Adapter) ResendEnvelope(ctx context.Context, id uuid.UUID) error {
	return nil
}

// The agreements API has no search by these criteria, so the listings are empty.

func (a *Adapter) GetEnvelopesByStatus(ctx context.Context, status esignature.EnvelopeStatus, limit int) ([]*esignature.Envelope, error) {
	return []*esignature.Envelope{}, nil
}

func (a *Adapter) GetEnvelopesByCreator(ctx context.Context, createdBy uuid.UUID, limit int) ([]*esignature.Envelope, error) {
	return []*esignature.Envelope{}, nil
}

func (a *Adapter) GetEnvelopesBySender(ctx context.Context, sentBy uuid.UUID, limit int) ([]*esignature.Envelope, error) {
	return []*esignature.Envelope{}, nil
}

func (a *Adapter) GetEnvelopesByProvider(ctx context.Context, provider esignature.Provider, limit int) ([]*esignature.Envelope, error) {
	return []*esignature.Envelope{}, nil
}

func (a *Adapter) GetExpiringEnvelopes(ctx context.Context, from, to time.Time) ([]*esignature.Envelope, error) {
	return []*esignature.Envelope{}, nil
}

func (a *Adapter) GetCompletedEnvelopes(ctx context.Context, from, to time.Time) ([]*esignature.Envelope, error) {
	return []*esignature.Envelope{}, nil
}

// ExistsEnvelope checks the local mapping only
func (a *Adapter) ExistsEnvelope(ctx context.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	return a.session.IDs().Contains(ctx, id)
}

// GetEnvelopeByExternalID returns nil, nil for an unknown agreement id or a
// provider other than Adobe Sign. An empty provider matches.
func (a *Adapter) GetEnvelopeByExternalID(ctx context.Context, externalID string, provider esignature.Provider) (*esignature.Envelope, error) {
	if provider != "" && provider != esignature.ProviderAdobeSign {
		return nil, nil
	}
	id, ok, err := a.session.IDs().InternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return a.GetEnvelope(ctx, id)
}

func (a *Adapter) GetSigningURL(ctx context.Context, id uuid.UUID, signerEmail, signerName, clientUserID string) (string, error) {
	return "", errors.UnsupportedError("embedded signing URL for Adobe Sign")
}

func (a *Adapter) agreementID(ctx context.Context, id uuid.UUID) (string, error) {
	agreementID, ok, err := a.session.IDs().ExternalID(ctx, id)
	if err != nil {
		return "", errors.InternalError("failed to read envelope id mapping", err)
	}
	if !ok {
		return "", errors.NotFoundError("envelope").WithContext("envelope_id", id.String())
	}
	return agreementID, nil
}

func (a *Adapter) changeState(ctx context.Context, id uuid.UUID, request AgreementStateRequest) error {
	agreementID, err := a.agreementID(ctx, id)
	if err != nil {
		return err
	}
	err = a.exec.run(ctx, func(token string) error {
		return a.client.UpdateState(ctx, token, agreementID, request)
	})
	if err != nil {
		a.logger.WithContext(ctx).Error("Failed to change agreement state", err,
			logging.Field{"envelope_id", id.String()},
			logging.Field{"state", request.State},
		)
		return err
	}
	a.logger.WithContext(ctx).Info("Agreement state changed",
		logging.Field{"envelope_id", id.String()},
		logging.Field{"state", request.State},
	)
	return nil
}
