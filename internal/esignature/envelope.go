// Package esignature defines the provider-neutral envelope model and the
// ports an e-signature provider adapter implements or depends on.
package esignature

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnvelopeStatus is the lifecycle state of an envelope
type EnvelopeStatus string

const (
	StatusDraft     EnvelopeStatus = "DRAFT"
	StatusSent      EnvelopeStatus = "SENT"
	StatusDelivered EnvelopeStatus = "DELIVERED"
	StatusSigned    EnvelopeStatus = "SIGNED"
	StatusCompleted EnvelopeStatus = "COMPLETED"
	StatusDeclined  EnvelopeStatus = "DECLINED"
	StatusVoided    EnvelopeStatus = "VOIDED"
	StatusExpired   EnvelopeStatus = "EXPIRED"
	StatusArchived  EnvelopeStatus = "ARCHIVED"
)

var envelopeStatuses = []EnvelopeStatus{
	StatusDraft, StatusSent, StatusDelivered, StatusSigned, StatusCompleted,
	StatusDeclined, StatusVoided, StatusExpired, StatusArchived,
}

// ParseEnvelopeStatus parses a status name case-insensitively
func ParseEnvelopeStatus(s string) (EnvelopeStatus, error) {
	upper := EnvelopeStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, status := range envelopeStatuses {
		if status == upper {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown envelope status %q", s)
}

// IsTerminal reports whether no further signing activity can happen
func (s EnvelopeStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusDeclined, StatusVoided, StatusExpired, StatusArchived:
		return true
	}
	return false
}

// Provider identifies the vendor that holds the envelope
type Provider string

const (
	ProviderAdobeSign Provider = "ADOBE_SIGN"
	ProviderDocuSign  Provider = "DOCUSIGN"
	ProviderHelloSign Provider = "HELLOSIGN"
	ProviderInternal  Provider = "INTERNAL"
)

// Envelope is the internal representation of a signature request
type Envelope struct {
	ID                 uuid.UUID      `json:"id"`
	Title              string         `json:"title,omitempty"`
	Description        string         `json:"description,omitempty"`
	Status             EnvelopeStatus `json:"status,omitempty"`
	Provider           Provider       `json:"provider,omitempty"`
	ExternalEnvelopeID string         `json:"externalEnvelopeId,omitempty"`

	CreatedBy  *uuid.UUID `json:"createdBy,omitempty"`
	SentBy     *uuid.UUID `json:"sentBy,omitempty"`
	VoidedBy   *uuid.UUID `json:"voidedBy,omitempty"`
	VoidReason string     `json:"voidReason,omitempty"`

	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	VoidedAt    *time.Time `json:"voidedAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// Clone returns a copy that shares no pointers with e
func (e *Envelope) Clone() *Envelope {
	if e == nil {
		return nil
	}
	c := *e
	c.CreatedBy = cloneID(e.CreatedBy)
	c.SentBy = cloneID(e.SentBy)
	c.VoidedBy = cloneID(e.VoidedBy)
	c.CreatedAt = cloneTime(e.CreatedAt)
	c.UpdatedAt = cloneTime(e.UpdatedAt)
	c.SentAt = cloneTime(e.SentAt)
	c.CompletedAt = cloneTime(e.CompletedAt)
	c.VoidedAt = cloneTime(e.VoidedAt)
	c.ExpiresAt = cloneTime(e.ExpiresAt)
	return &c
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
