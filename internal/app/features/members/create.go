// internal/app/features/members/create.go
package members

import (
	"net/http"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	memberstore "github.com/dalemusser/pujahub/internal/app/store/members"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleCreate handles POST /members.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in memberstore.Input
	if err := uierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create member: bad body", err, "Invalid request body.")
		return
	}
	in.ClubID = clubFor(r, in.ClubID)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create member")
	defer cancel()

	m, err := h.Members.Create(ctx, in)
	if err != nil {
		h.ErrLog.Respond(w, r, "add member", err)
		return
	}
	h.Log.Info("member created", zap.String("member_id", m.ID), zap.String("role", m.Role))
	h.Audit.MemberCreated(ctx, r, m.ID, m.Role)
	uierrors.WriteJSON(w, http.StatusCreated, m.Redacted())
}
