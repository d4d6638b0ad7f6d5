// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log under /audit. Readers are the ones who may
// manage members; everyone but the platform admin sees only their club.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequirePermission(tierpolicy.CanManageMembers))
		pr.Get("/", h.ServeList)
	})
	return r
}
