// internal/app/features/pujas/routes.go
package pujas

import (
	"net/http"

	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Sub is a feature router mounted under /pujas/{pujaID}.
type Sub struct {
	Path    string
	Handler http.Handler
}

// Routes mounts the puja routes. subs run after the puja has been loaded
// and the caller's club checked.
func Routes(h *Handler, sm *auth.SessionManager, subs ...Sub) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.With(sm.RequirePermission(tierpolicy.CanManagePujas)).Post("/", h.HandleCreate)

	r.Route("/{"+Param+"}", func(pr chi.Router) {
		pr.Use(h.Load)
		pr.Get("/", h.ServeView)
		pr.With(sm.RequirePermission(tierpolicy.CanManagePujas)).Put("/", h.HandleEdit)
		pr.With(sm.RequirePermission(tierpolicy.CanManagePujas)).Post("/status", h.HandleStatus)
		pr.With(sm.RequirePermission(tierpolicy.CanDeletePujas)).Delete("/", h.HandleDelete)
		for _, s := range subs {
			pr.Mount(s.Path, s.Handler)
		}
	})
	return r
}
