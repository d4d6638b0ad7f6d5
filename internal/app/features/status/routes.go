// internal/app/features/status/routes.go
package status

import (
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the status page, typically at /admin/status. Only the
// platform admin may read it.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequirePlatformAdmin())
	r.Get("/", h.Serve)
	return r
}
