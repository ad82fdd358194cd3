// Package routes registers all HTTP routes for the API.
package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openauthz/api/internal/infra/http/handler"
)

// uuidPattern constrains role identifiers in the path. A non-matching path
// does not route to the resource at all.
const uuidPattern = "[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}"

// Handlers holds all HTTP handlers for route registration.
type Handlers struct {
	Health *handler.HealthHandler
	Docs   *handler.DocsHandler
	Role   *handler.RoleHandler
}

// Register registers all application routes. Route definitions live here, in
// the infrastructure layer, not in main.
func Register(router chi.Router, h Handlers) {
	router.Get("/", h.Docs.Schema)
	router.Get("/_health", h.Health.Live)
	router.Get("/_health/ready", h.Health.Ready)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/role", func(r chi.Router) {
		r.Get("/", h.Role.List)
		r.Post("/", h.Role.Create)

		r.Route("/{id:"+uuidPattern+"}", func(r chi.Router) {
			r.Get("/", h.Role.Get)
			r.Post("/", h.Role.Update)
			r.Delete("/", h.Role.Delete)
		})
	})
}
