package livesync

import (
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/app/system/wsauth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.With(sm.RequireSignedIn).Post("/token", h.HandleToken)
	r.With(wsauth.Authenticate(h.Tokens, h.Log), sm.RequireSignedIn).Get("/ws", h.ServeWS)
	return r
}
