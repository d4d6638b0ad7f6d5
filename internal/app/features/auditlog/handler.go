// internal/app/features/auditlog/handler.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/store/audit"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/paging"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

type Handler struct {
	Events *audit.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(events *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Events: events, ErrLog: errLog, Log: logger}
}

// filterFrom reads ?category=&event_type=&user=&since=YYYY-MM-DD. The club
// is always the caller's; only the platform admin may pick one with
// ?club=.
func filterFrom(r *http.Request) audit.QueryFilter {
	f := audit.QueryFilter{
		Category:  strings.TrimSpace(query.Get(r, "category")),
		EventType: strings.TrimSpace(query.Get(r, "event_type")),
		UserID:    strings.TrimSpace(query.Get(r, "user")),
		ClubID:    authz.UserClubID(r),
	}
	if authz.IsPlatformAdmin(r) {
		f.ClubID = strings.TrimSpace(query.Get(r, "club"))
	}
	if since := query.Get(r, "since"); since != "" {
		if t, err := time.Parse("2006-01-02", since); err == nil {
			f.Since = t
		}
	}
	return f
}

// ServeList handles GET /audit, newest first, paged with ?start=&limit=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filterFrom(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit log query", err, "A database error occurred.")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, paging.Slice(events, paging.ParseStart(r), paging.ParseLimit(r)))
}
