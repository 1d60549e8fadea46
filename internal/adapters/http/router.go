package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diacaremarket/safe-deal-service/internal/application"
	"github.com/diacaremarket/safe-deal-service/internal/ports"
)

// Handler is the HTTP adapter entrypoint for the safe-deal use-cases.
// Keeping only application and verifier dependencies here preserves clean adapter boundaries.
type Handler struct {
	service  *application.Service
	verifier ports.TokenVerifier
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service, verifier ports.TokenVerifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

// NewRouter registers the service's HTTP routes and middleware stack.
// Centralizing routes here ensures consistent auth and error behavior across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/market/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/transactions", handler.createTransaction)
			r.Get("/transactions", handler.listTransactions)
			r.Get("/transactions/{transaction_id}", handler.getTransaction)
			r.Put("/transactions/{transaction_id}/status", handler.updateStatus)
			r.Post("/transactions/{transaction_id}/dispute", handler.createDispute)
		})
	})

	return r
}
