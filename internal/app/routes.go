package app

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"esign-adapter/internal/handlers"
	"esign-adapter/internal/metrics"
	"esign-adapter/internal/middleware"
)

const uuidPattern = "{id:[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}}"

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers) {
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// API documentation
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Vendor callbacks
	router.HandleFunc("/webhooks/adobe-sign", h.HandleAdobeSignWebhook).Methods("GET", "POST")

	api := router.PathPrefix("/api/envelopes").Subrouter()

	api.HandleFunc("", h.CreateEnvelope).Methods("POST")
	api.HandleFunc("", h.ListEnvelopes).Methods("GET")
	api.HandleFunc("/expiring", h.ListExpiringEnvelopes).Methods("GET")
	api.HandleFunc("/completed", h.ListCompletedEnvelopes).Methods("GET")
	api.HandleFunc("/external/{externalId}", h.GetEnvelopeByExternalID).Methods("GET")

	api.HandleFunc("/"+uuidPattern, h.GetEnvelope).Methods("GET")
	api.HandleFunc("/"+uuidPattern, h.UpdateEnvelope).Methods("PUT")
	api.HandleFunc("/"+uuidPattern, h.DeleteEnvelope).Methods("DELETE")
	api.HandleFunc("/"+uuidPattern+"/exists", h.EnvelopeExists).Methods("GET")
	api.HandleFunc("/"+uuidPattern+"/status", h.GetEnvelopeStatus).Methods("GET")
	api.HandleFunc("/"+uuidPattern+"/signing-url", h.GetSigningURL).Methods("GET")
	api.HandleFunc("/"+uuidPattern+"/send", h.SendEnvelope).Methods("POST")
	api.HandleFunc("/"+uuidPattern+"/void", h.VoidEnvelope).Methods("POST")
	api.HandleFunc("/"+uuidPattern+"/archive", h.ArchiveEnvelope).Methods("POST")
	api.HandleFunc("/"+uuidPattern+"/sync", h.SyncEnvelope).Methods("POST")
	api.HandleFunc("/"+uuidPattern+"/resend", h.ResendEnvelope).Methods("POST")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"route not found","type":"not_found"}`))
	})
}
