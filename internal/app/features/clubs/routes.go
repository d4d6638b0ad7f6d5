// internal/app/features/clubs/routes.go
package clubs

import (
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/{id}", h.ServeView)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequirePlatformAdmin())
		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)
	})
	return r
}
