// internal/app/features/members/routes.go
package members

import (
	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the member routes. Any signed-in user may read; writes
// need canManageMembers.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/roles", h.ServeRoles)
		pr.Get("/{id}", h.ServeView)

		pr.Group(func(wr chi.Router) {
			wr.Use(sm.RequirePermission(tierpolicy.CanManageMembers))
			wr.Post("/", h.HandleCreate)
			wr.Put("/{id}", h.HandleEdit)
			wr.Delete("/{id}", h.HandleDelete)
		})
	})

	return r
}
