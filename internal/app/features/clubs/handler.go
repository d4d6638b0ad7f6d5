// internal/app/features/clubs/handler.go
package clubs

import (
	"net/http"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	clubstore "github.com/dalemusser/pujahub/internal/app/store/clubs"
	"github.com/dalemusser/pujahub/internal/app/system/auditlog"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves club administration for multi-club deployments.
type Handler struct {
	Clubs  *clubstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
	Audit  *auditlog.Logger
}

func NewHandler(clubs *clubstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Clubs: clubs, ErrLog: errLog, Log: logger}
}

// ServeList handles GET /clubs.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list clubs")
	defer cancel()

	list, err := h.Clubs.List(ctx)
	if err != nil {
		h.ErrLog.Respond(w, r, "load clubs", err)
		return
	}
	out := make([]models.Club, len(list))
	for i, c := range list {
		out[i] = c.Redacted()
	}
	uierrors.WriteJSON(w, http.StatusOK, out)
}

// ServeView handles GET /clubs/{id}. A club admin may read its own club.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !authz.IsPlatformAdmin(r) && authz.UserClubID(r) != id {
		uierrors.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get club")
	defer cancel()

	c, err := h.Clubs.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Respond(w, r, "load club", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, c.Redacted())
}

// HandleCreate handles POST /clubs.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in clubstore.Input
	if err := uierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create club: bad body", err, "Invalid request body.")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create club")
	defer cancel()

	c, err := h.Clubs.Create(ctx, in)
	if err != nil {
		h.ErrLog.Respond(w, r, "add club", err)
		return
	}
	h.Log.Info("club created", zap.String("club_id", c.ID), zap.String("name", c.Name))
	h.Audit.ClubCreated(ctx, r, c.ID, c.Name)
	uierrors.WriteJSON(w, http.StatusCreated, c.Redacted())
}

// HandleEdit handles PUT /clubs/{id}. An empty password keeps the current
// one.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	var in clubstore.Input
	if err := uierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "edit club: bad body", err, "Invalid request body.")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update club")
	defer cancel()

	c, err := h.Clubs.Update(ctx, chi.URLParam(r, "id"), in)
	if err != nil {
		h.ErrLog.Respond(w, r, "update club", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, c.Redacted())
}

// HandleDelete handles DELETE /clubs/{id}. Club data is left in place.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete club")
	defer cancel()

	if err := h.Clubs.Delete(ctx, id); err != nil {
		h.ErrLog.Respond(w, r, "delete club", err)
		return
	}
	h.Log.Info("club deleted", zap.String("club_id", id))
	h.Audit.ClubDeleted(ctx, r, id)
	w.WriteHeader(http.StatusNoContent)
}
