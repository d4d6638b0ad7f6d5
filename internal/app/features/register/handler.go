// internal/app/features/register/handler.go
package register

import (
	"net/http"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	registrationstore "github.com/dalemusser/pujahub/internal/app/store/registrations"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Registrations *registrationstore.Store
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
}

func NewHandler(registrations *registrationstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Registrations: registrations, ErrLog: errLog, Log: logger}
}

// HandleRegister handles POST /register. The applicant waits for a
// president to approve the request before they can sign in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registrationstore.Input
	if err := uierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "register: bad body", err, "Invalid request body.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "register")
	defer cancel()

	p, err := h.Registrations.Submit(ctx, in)
	if err != nil {
		h.ErrLog.Respond(w, r, "submit registration", err)
		return
	}
	h.Log.Info("registration submitted", zap.String("registration_id", p.ID), zap.String("club_id", p.ClubID))
	uierrors.WriteJSON(w, http.StatusCreated, p.Redacted())
}
