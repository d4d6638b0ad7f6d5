// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"time"

	"github.com/dalemusser/pujahub/internal/app/clientstore"
	"github.com/dalemusser/pujahub/internal/app/docstore"
	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/features/pujas"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Store  docstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
	// Now is the clock used for upcoming tasks.
	Now func() time.Time
}

func NewHandler(ds docstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Store: ds, ErrLog: errLog, Log: logger, Now: time.Now}
}

type view struct {
	Puja          models.Puja            `json:"puja"`
	Summary       clientstore.Summary    `json:"summary"`
	UpcomingTasks []models.Task          `json:"upcomingTasks"`
	PendingItems  []models.InventoryItem `json:"pendingItems"`
}

// ServeDashboard returns the money summary, budget totals and open work for
// the puja in context.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := pujas.FromContext(r.Context())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "load dashboard")
	defer cancel()
	s, err := clientstore.ForPuja(ctx, h.Store, p.ID, authz.UserClubID(r))
	if err != nil {
		h.ErrLog.Respond(w, r, "load dashboard", err)
		return
	}

	now := h.Now()
	v := view{
		Puja:          p,
		Summary:       s.Summary(now),
		UpcomingTasks: s.UpcomingTasks(now),
		PendingItems:  s.PendingItems(),
	}
	if v.UpcomingTasks == nil {
		v.UpcomingTasks = []models.Task{}
	}
	if v.PendingItems == nil {
		v.PendingItems = []models.InventoryItem{}
	}
	uierrors.WriteJSON(w, http.StatusOK, v)
}
