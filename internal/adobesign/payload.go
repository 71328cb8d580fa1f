package adobesign

import (
	"strings"
	"time"

	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/esignature"
)

const (
	defaultAgreementName = "Agreement"

	StateInProcess = "IN_PROCESS"
	StateCancelled = "CANCELLED"

	VisibilityHide = "HIDE"
)

// AgreementRequest is the body of POST /agreements. Participants and
// documents are not mapped.
type AgreementRequest struct {
	Name          string `json:"name"`
	Message       string `json:"message"`
	SignatureType string `json:"signatureType,omitempty"`
	State         string `json:"state,omitempty"`
}

type agreementCreationResponse struct {
	ID string `json:"id"`
}

// AgreementInfo is the subset of GET /agreements/{id} the adapter reads.
// Every field may be absent.
type AgreementInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Message        string `json:"message"`
	Status         string `json:"status"`
	CreatedDate    string `json:"createdDate,omitempty"`
	ExpirationTime string `json:"expirationTime,omitempty"`
}

// parseVendorTime accepts RFC 3339 and the numeric-offset form the API
// sometimes returns. Unparseable values are treated as absent.
func parseVendorTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05Z0700", "2006-01-02T15:04:05.000Z0700"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// AgreementStateRequest is the body of PUT /agreements/{id}/state
type AgreementStateRequest struct {
	State                     string                     `json:"state"`
	AgreementCancellationInfo *AgreementCancellationInfo `json:"agreementCancellationInfo,omitempty"`
}

type AgreementCancellationInfo struct {
	Comment      string `json:"comment,omitempty"`
	NotifyOthers bool   `json:"notifyOthers"`
}

type visibilityRequest struct {
	Visibility string `json:"visibility"`
}

type vendorError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// buildAgreementRequest maps an envelope to the minimal agreement payload.
func buildAgreementRequest(envelope *esignature.Envelope) AgreementRequest {
	name := envelope.Title
	if name == "" {
		name = defaultAgreementName
	}
	return AgreementRequest{
		Name:          name,
		Message:       envelope.Description,
		SignatureType: "ESIGN",
		State:         "DRAFT",
	}
}

var agreementStatuses = map[string]esignature.EnvelopeStatus{
	"DRAFT":                           esignature.StatusDraft,
	"AUTHORING":                       esignature.StatusDraft,
	"PREFILL":                         esignature.StatusDraft,
	"DOCUMENTS_NOT_YET_PROCESSED":     esignature.StatusDraft,
	"OUT_FOR_SIGNATURE":               esignature.StatusSent,
	"OUT_FOR_DELIVERY":                esignature.StatusSent,
	"OUT_FOR_ACCEPTANCE":              esignature.StatusSent,
	"OUT_FOR_FORM_FILLING":            esignature.StatusSent,
	"OUT_FOR_APPROVAL":                esignature.StatusSent,
	"WAITING_FOR_VERIFICATION":        esignature.StatusSent,
	"WIDGET_WAITING_FOR_VERIFICATION": esignature.StatusSent,
	"WAITING_FOR_FAXIN":               esignature.StatusSent,
	"SIGNED":                          esignature.StatusCompleted,
	"APPROVED":                        esignature.StatusCompleted,
	"ACCEPTED":                        esignature.StatusCompleted,
	"DELIVERED":                       esignature.StatusCompleted,
	"FORM_FILLED":                     esignature.StatusCompleted,
	"CANCELLED":                       esignature.StatusVoided,
	"EXPIRED":                         esignature.StatusExpired,
	"ARCHIVED":                        esignature.StatusArchived,
}

// mapAgreementStatus converts a vendor status. An empty status is DRAFT;
// names that already match an envelope status pass through.
func mapAgreementStatus(status string) (esignature.EnvelopeStatus, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return esignature.StatusDraft, nil
	}
	if mapped, ok := agreementStatuses[status]; ok {
		return mapped, nil
	}
	if parsed, err := esignature.ParseEnvelopeStatus(status); err == nil {
		return parsed, nil
	}
	return "", errors.ValidationError("unknown agreement status").WithContext("status", status)
}
