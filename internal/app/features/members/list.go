// internal/app/features/members/list.go
package members

import (
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/normalize"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// ServeList handles GET /members?q=. The list is limited to the caller's
// club; q matches case-insensitively on name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list members")
	defer cancel()

	list, err := h.Members.List(ctx, authz.UserClubID(r))
	if err != nil {
		h.ErrLog.Respond(w, r, "load members", err)
		return
	}
	if q := text.Fold(normalize.QueryParam(r.URL.Query().Get("q"))); q != "" {
		kept := list[:0]
		for _, m := range list {
			if strings.Contains(m.NameCI, q) {
				kept = append(kept, m)
			}
		}
		list = kept
	}
	uierrors.WriteJSON(w, http.StatusOK, redact(list))
}

// ServeView handles GET /members/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, m.Redacted())
}

// ServeRoles handles GET /members/roles: the closed set of committee roles.
func (h *Handler) ServeRoles(w http.ResponseWriter, r *http.Request) {
	uierrors.WriteJSON(w, http.StatusOK, models.DomainRoles)
}
