package budget

import (
	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes expects to be mounted under /pujas/{pujaID}.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeBudget)
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequirePermission(tierpolicy.CanManageBudget))
		pr.Post("/quick-fix", h.HandleQuickFix)
		pr.Post("/save", h.HandleSave)
	})
	return r
}
