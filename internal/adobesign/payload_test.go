package adobesign

import (
	"testing"
	"time"

	"esign-adapter/internal/common/errors"
	"esign-adapter/internal/esignature"
)

func TestMapAgreementStatus(t *testing.T) {
	tests := []struct {
		in   string
		want esignature.EnvelopeStatus
	}{
		{"", esignature.StatusDraft},
		{"DRAFT", esignature.StatusDraft},
		{"AUTHORING", esignature.StatusDraft},
		{"OUT_FOR_SIGNATURE", esignature.StatusSent},
		{"out_for_approval", esignature.StatusSent},
		{"SIGNED", esignature.StatusCompleted},
		{"APPROVED", esignature.StatusCompleted},
		{"CANCELLED", esignature.StatusVoided},
		{"EXPIRED", esignature.StatusExpired},
		{"ARCHIVED", esignature.StatusArchived},
		{"DECLINED", esignature.StatusDeclined},
		{"completed", esignature.StatusCompleted},
	}

	for _, tt := range tests {
		got, err := mapAgreementStatus(tt.in)
		if err != nil {
			t.Errorf("mapAgreementStatus(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("mapAgreementStatus(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMapAgreementStatus_Unknown(t *testing.T) {
	_, err := mapAgreementStatus("NOT_A_STATUS")
	if !errors.IsType(err, errors.ErrTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildAgreementRequest(t *testing.T) {
	req := buildAgreementRequest(&esignature.Envelope{})
	if req.Name != "Agreement" || req.Message != "" {
		t.Errorf("defaults = %+v, want name Agreement and empty message", req)
	}

	req = buildAgreementRequest(&esignature.Envelope{Title: "NDA", Description: "Please sign"})
	if req.Name != "NDA" || req.Message != "Please sign" {
		t.Errorf("request = %+v", req)
	}
}

func TestParseVendorTime(t *testing.T) {
	want := time.Date(2024, 4, 30, 8, 15, 0, 0, time.UTC)

	for _, in := range []string{"2024-04-30T08:15:00Z", "2024-04-30T10:15:00+02:00", "2024-04-30T08:15:00+0000", "2024-04-30T08:15:00.000+0000"} {
		got := parseVendorTime(in)
		if got == nil || !got.Equal(want) {
			t.Errorf("parseVendorTime(%q) = %v, want %v", in, got, want)
		}
	}

	if got := parseVendorTime(""); got != nil {
		t.Errorf("empty value should be nil, got %v", got)
	}
	if got := parseVendorTime("yesterday"); got != nil {
		t.Errorf("garbage should be nil, got %v", got)
	}
}
