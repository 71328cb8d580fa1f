package adobesign

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeAgreement struct {
	Name        string `json:"name"`
	Message     string `json:"message"`
	Status      string `json:"status,omitempty"`
	CreatedDate string `json:"createdDate,omitempty"`
	Visibility  string `json:"-"`
}

// fakeAdobeSign is an in-memory stand-in for the token endpoint and the
// agreements API.
type fakeAdobeSign struct {
	*httptest.Server
	t *testing.T

	mu          sync.Mutex
	agreements  map[string]*fakeAgreement
	nextID      int
	issued      string
	createBody  map[string]interface{}
	stateBodies []map[string]interface{}
	authHeaders []string

	requests        atomic.Int32
	tokenCalls      atomic.Int32
	createCalls     atomic.Int32
	getCalls        atomic.Int32
	stateCalls      atomic.Int32
	visibilityCalls atomic.Int32

	// createFailures > 0 fails that many creates with createStatus; -1 fails forever
	createFailures atomic.Int32
	createStatus   atomic.Int32
	getStatus      atomic.Int32
	rejectNext     atomic.Int32
}

func newFakeAdobeSign(t *testing.T) *fakeAdobeSign {
	t.Helper()
	f := &fakeAdobeSign{t: t, agreements: make(map[string]*fakeAgreement)}
	f.createStatus.Store(http.StatusInternalServerError)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", f.handleToken)
	mux.HandleFunc("POST /api/rest/v6/agreements", f.authorized(f.handleCreate))
	mux.HandleFunc("GET /api/rest/v6/agreements/{id}", f.authorized(f.handleGet))
	mux.HandleFunc("PUT /api/rest/v6/agreements/{id}/state", f.authorized(f.handleState))
	mux.HandleFunc("PUT /api/rest/v6/agreements/{id}/me/visibility", f.authorized(f.handleVisibility))

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAdobeSign) seed(id string, agreement *fakeAgreement) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.agreements[id] = agreement
}

func (f *fakeAdobeSign) handleToken(w http.ResponseWriter, r *http.Request) {
	n := f.tokenCalls.Add(1)
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "refresh_token" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	token := fmt.Sprintf("token-%d", n)
	f.mu.Lock()
	f.issued = token
	f.mu.Unlock()
	respond(w, http.StatusOK, map[string]interface{}{"access_token": token, "token_type": "Bearer", "expires_in": 3600})
}

func (f *fakeAdobeSign) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		f.mu.Lock()
		f.authHeaders = append(f.authHeaders, header)
		issued := f.issued
		f.mu.Unlock()

		if header != "Bearer "+issued {
			respond(w, http.StatusUnauthorized, vendorError{Code: "INVALID_ACCESS_TOKEN", Message: "unknown token"})
			return
		}
		if f.rejectNext.Load() > 0 {
			f.rejectNext.Add(-1)
			respond(w, http.StatusUnauthorized, vendorError{Code: "INVALID_ACCESS_TOKEN", Message: "token revoked"})
			return
		}
		if r.Method != http.MethodGet && r.Header.Get("Content-Type") != "application/json" {
			f.t.Errorf("%s %s: Content-Type = %q", r.Method, r.URL.Path, r.Header.Get("Content-Type"))
		}
		next(w, r)
	}
}

func (f *fakeAdobeSign) handleCreate(w http.ResponseWriter, r *http.Request) {
	f.createCalls.Add(1)

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, vendorError{Code: "INVALID_JSON", Message: err.Error()})
		return
	}

	switch remaining := f.createFailures.Load(); {
	case remaining < 0:
		respond(w, int(f.createStatus.Load()), vendorError{Code: "MISC_SERVER_ERROR", Message: "boom"})
		return
	case remaining > 0:
		f.createFailures.Add(-1)
		respond(w, int(f.createStatus.Load()), vendorError{Code: "MISC_SERVER_ERROR", Message: "boom"})
		return
	}

	f.mu.Lock()
	f.nextID++
	id := fmt.Sprintf("AG-%d", f.nextID)
	name, _ := body["name"].(string)
	message, _ := body["message"].(string)
	f.agreements[id] = &fakeAgreement{Name: name, Message: message, Status: "DRAFT", CreatedDate: "2024-05-01T12:00:00Z"}
	f.createBody = body
	f.mu.Unlock()

	respond(w, http.StatusCreated, map[string]string{"id": id})
}

func (f *fakeAdobeSign) handleGet(w http.ResponseWriter, r *http.Request) {
	f.getCalls.Add(1)
	if status := f.getStatus.Load(); status != 0 {
		respond(w, int(status), vendorError{Code: "MISC_SERVER_ERROR", Message: "boom"})
		return
	}

	f.mu.Lock()
	agreement, ok := f.agreements[r.PathValue("id")]
	var copied fakeAgreement
	if ok {
		copied = *agreement
	}
	f.mu.Unlock()

	if !ok {
		respond(w, http.StatusNotFound, vendorError{Code: "INVALID_AGREEMENT_ID", Message: "not found"})
		return
	}
	respond(w, http.StatusOK, copied)
}

func (f *fakeAdobeSign) handleState(w http.ResponseWriter, r *http.Request) {
	f.stateCalls.Add(1)

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, vendorError{Code: "INVALID_JSON"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.stateBodies = append(f.stateBodies, body)
	agreement, ok := f.agreements[r.PathValue("id")]
	if !ok {
		respond(w, http.StatusNotFound, vendorError{Code: "INVALID_AGREEMENT_ID"})
		return
	}
	switch body["state"] {
	case StateInProcess:
		agreement.Status = "OUT_FOR_SIGNATURE"
	case StateCancelled:
		agreement.Status = "CANCELLED"
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeAdobeSign) handleVisibility(w http.ResponseWriter, r *http.Request) {
	f.visibilityCalls.Add(1)

	var body visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, vendorError{Code: "INVALID_JSON"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	agreement, ok := f.agreements[r.PathValue("id")]
	if !ok {
		respond(w, http.StatusNotFound, vendorError{Code: "INVALID_AGREEMENT_ID"})
		return
	}
	agreement.Visibility = strings.ToUpper(body.Visibility)
	w.WriteHeader(http.StatusNoContent)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
