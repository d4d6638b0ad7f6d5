// internal/app/features/reports/routes.go
package reports

import (
	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes expects to be mounted under /pujas/{pujaID}/report.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequirePermission(tierpolicy.CanViewReports))
	r.Get("/budget.csv", h.ServeBudgetCSV)
	r.Get("/contributions.csv", h.ServeContributionsCSV)
	return r
}
