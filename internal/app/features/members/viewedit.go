// internal/app/features/members/viewedit.go
package members

import (
	"net/http"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	memberstore "github.com/dalemusser/pujahub/internal/app/store/members"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.Member, bool) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load member")
	defer cancel()

	m, err := h.Members.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Respond(w, r, "load member", err)
		return m, false
	}
	if !authz.CanAccessClub(r, m.ClubID) {
		uierrors.WriteError(w, http.StatusForbidden, "forbidden")
		return m, false
	}
	return m, true
}

// HandleEdit handles PUT /members/{id}. An empty password keeps the
// current one.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	var in memberstore.Input
	if err := uierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "edit member: bad body", err, "Invalid request body.")
		return
	}
	if !authz.IsPlatformAdmin(r) || in.ClubID == "" {
		in.ClubID = m.ClubID
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update member")
	defer cancel()

	updated, err := h.Members.Update(ctx, m.ID, in)
	if err != nil {
		h.ErrLog.Respond(w, r, "update member", err)
		return
	}
	h.Audit.MemberUpdated(ctx, r, updated.ID, updated.Role)
	uierrors.WriteJSON(w, http.StatusOK, updated.Redacted())
}

// HandleDelete handles DELETE /members/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete member")
	defer cancel()

	if err := h.Members.Delete(ctx, m.ID); err != nil {
		h.ErrLog.Respond(w, r, "delete member", err)
		return
	}
	h.Log.Info("member deleted", zap.String("member_id", m.ID))
	h.Audit.MemberDeleted(ctx, r, m.ID)
	w.WriteHeader(http.StatusNoContent)
}
