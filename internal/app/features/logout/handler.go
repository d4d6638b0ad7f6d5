// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/system/auditlog"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Audit      *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles POST /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if ok {
		h.Log.Info("signed out", zap.String("user_id", u.ID))
	}
	h.Audit.Logout(r.Context(), r, u)
	if err := h.SessionMgr.Logout(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
