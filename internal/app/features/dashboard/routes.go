package dashboard

import (
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes expects to be mounted under /pujas/{pujaID}.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeDashboard)
	return r
}
