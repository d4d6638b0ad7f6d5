// internal/app/features/records/routes.go
package records

import (
	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/features/pujas"
	recordstore "github.com/dalemusser/pujahub/internal/app/store/records"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes serves one kind: reads for any signed-in user, writes gated by the
// kind's permission.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequirePermission(h.Kind.Permission))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})
	return r
}

// Mounts builds one router per registered kind. top routers belong at
// "/<name>"; scoped ones go under /pujas/{pujaID}.
func Mounts(records *recordstore.Store, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) (top, scoped []pujas.Sub) {
	topNames, scopedNames := recordstore.Names()
	build := func(name string) pujas.Sub {
		k, _ := recordstore.Lookup(name)
		return pujas.Sub{Path: "/" + name, Handler: Routes(NewHandler(k, records, errLog, logger), sm)}
	}
	for _, n := range topNames {
		top = append(top, build(n))
	}
	for _, n := range scopedNames {
		scoped = append(scoped, build(n))
	}
	return top, scoped
}
