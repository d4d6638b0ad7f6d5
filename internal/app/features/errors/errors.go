// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/pujahub/internal/app/system/authz"
)

// Handler serves the targets auth redirects browsers to.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type pageData struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	SignedIn  bool   `json:"signedIn"`
	Tier      string `json:"tier,omitempty"`
	UserName  string `json:"userName,omitempty"`
	LoginPath string `json:"loginPath,omitempty"`
}

// Forbidden handles GET /forbidden.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	tier, name, _, signedIn := authz.UserCtx(r)
	WriteJSON(w, http.StatusForbidden, pageData{
		Error:    "forbidden",
		Message:  "You don't have permission to do that.",
		SignedIn: signedIn,
		Tier:     string(tier),
		UserName: name,
	})
}

// Unauthorized handles GET /unauthorized.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusUnauthorized, pageData{
		Error:     "unauthorized",
		Message:   "Please sign in to continue.",
		LoginPath: "/login",
	})
}
