package esignature

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EnvelopePort is the driving port: how the rest of the system manages envelopes
// regardless of the provider behind them.
//
// Listing operations return an empty, non-nil slice when the provider has no
// query capability. GetEnvelopeByExternalID returns nil, nil when the external
// id is unknown.
type EnvelopePort interface {
	CreateEnvelope(ctx context.Context, envelope *Envelope) (*Envelope, error)
	GetEnvelope(ctx context.Context, id uuid.UUID) (*Envelope, error)
	UpdateEnvelope(ctx context.Context, envelope *Envelope) (*Envelope, error)
	DeleteEnvelope(ctx context.Context, id uuid.UUID) error

	SendEnvelope(ctx context.Context, id uuid.UUID, sentBy uuid.UUID) (*Envelope, error)
	VoidEnvelope(ctx context.Context, id uuid.UUID, voidReason string, voidedBy uuid.UUID) (*Envelope, error)
	ArchiveEnvelope(ctx context.Context, id uuid.UUID) (*Envelope, error)
	SyncEnvelopeStatus(ctx context.Context, id uuid.UUID) (*Envelope, error)
	ResendEnvelope(ctx context.Context, id uuid.UUID) error

	GetEnvelopesByStatus(ctx context.Context, status EnvelopeStatus, limit int) ([]*Envelope, error)
	GetEnvelopesByCreator(ctx context.Context, createdBy uuid.UUID, limit int) ([]*Envelope, error)
	GetEnvelopesBySender(ctx context.Context, sentBy uuid.UUID, limit int) ([]*Envelope, error)
	GetEnvelopesByProvider(ctx context.Context, provider Provider, limit int) ([]*Envelope, error)
	GetExpiringEnvelopes(ctx context.Context, from, to time.Time) ([]*Envelope, error)
	GetCompletedEnvelopes(ctx context.Context, from, to time.Time) ([]*Envelope, error)

	ExistsEnvelope(ctx context.Context, id uuid.UUID) (bool, error)
	GetEnvelopeByExternalID(ctx context.Context, externalID string, provider Provider) (*Envelope, error)
	GetSigningURL(ctx context.Context, id uuid.UUID, signerEmail, signerName, clientUserID string) (string, error)
}

// Document is the metadata of a stored document
type Document struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	MimeType string    `json:"mimeType"`
	Size     int64     `json:"size"`
}

// DocumentPort is a driven port for document metadata. Adapters receive it for
// attaching documents to envelopes.
type DocumentPort interface {
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
}

// DocumentContentPort is a driven port for document bytes.
type DocumentContentPort interface {
	GetContent(ctx context.Context, documentID uuid.UUID) ([]byte, error)
}
