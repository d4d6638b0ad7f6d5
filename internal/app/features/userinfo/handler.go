// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
)

// Handler serves user information for authenticated sessions.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type meResponse struct {
	IsAuthenticated bool              `json:"isAuthenticated"`
	User            *auth.SessionUser `json:"user,omitempty"`
	Permissions     map[string]bool   `json:"permissions"`
}

// ServeMe returns the session user and the permission map of their tier.
//
//	{ "isAuthenticated": true, "user": {...}, "permissions": {"canManagePujas": true, ...} }
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	resp := meResponse{IsAuthenticated: ok, Permissions: authz.Permissions(r)}
	if ok {
		resp.User = user
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}
