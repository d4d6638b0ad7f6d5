// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleMemberLogin)
	r.Post("/club", h.HandleClubLogin)
	r.With(sm.RequireSignedIn).Post("/select-club", h.HandleSelectClub)
	return r
}
