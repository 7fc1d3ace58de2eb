// Package http provides HTTP routing and middleware configuration
// for the credential management API.
package http

import (
	"net/http"

	"github.com/heyzeeshan/odoo-quick-login/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// management API. It applies request logging and, on mutating routes,
// JSON content-type enforcement.
//
// Routes:
//
//	GET    /api/instances    → handler.Instances
//	GET    /api/credentials  → handler.List
//	POST   /api/credentials  → handler.Add
//	DELETE /api/credentials  → handler.Remove
func NewRouter(handler *CredentialsHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/instances", handler.Instances)
		r.Get("/credentials", handler.List)
		r.Delete("/credentials", handler.Remove)

		// Mutating appends must carry a JSON body
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.AllowContentType("application/json"))
			r.Post("/credentials", handler.Add)
		})
	})

	return r
}
