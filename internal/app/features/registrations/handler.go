// internal/app/features/registrations/handler.go
package registrations

import (
	"net/http"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	registrationstore "github.com/dalemusser/pujahub/internal/app/store/registrations"
	"github.com/dalemusser/pujahub/internal/app/system/auditlog"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/normalize"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Registrations *registrationstore.Store
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
	Audit         *auditlog.Logger
}

func NewHandler(registrations *registrationstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Registrations: registrations, ErrLog: errLog, Log: logger}
}

// ServeList handles GET /registrations?status=pending. Reviewers see their
// own club's requests.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	status := normalize.QueryParam(r.URL.Query().Get("status"))
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list registrations")
	defer cancel()

	list, err := h.Registrations.List(ctx, status, authz.UserClubID(r))
	if err != nil {
		h.ErrLog.Respond(w, r, "load registrations", err)
		return
	}
	for i := range list {
		list[i] = list[i].Redacted()
	}
	uierrors.WriteJSON(w, http.StatusOK, list)
}

// load fetches the registration named in the URL and checks it belongs to a
// club the reviewer may act on.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.PendingMember, bool) {
	p, err := h.Registrations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Respond(w, r, "load registration", err)
		return p, false
	}
	if !authz.CanAccessClub(r, p.ClubID) {
		uierrors.WriteError(w, http.StatusForbidden, "forbidden")
		return p, false
	}
	return p, true
}

type approveRequest struct {
	Role string `json:"role"`
}

// HandleApprove handles POST /registrations/{id}/approve. The role defaults
// to Member.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := uierrors.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "approve: bad body", err, "Invalid request body.")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "approve registration")
	defer cancel()
	r = r.WithContext(ctx)

	p, ok := h.load(w, r)
	if !ok {
		return
	}
	reviewer, _ := auth.CurrentUser(r)
	m, err := h.Registrations.Approve(ctx, p.ID, req.Role, reviewer.ID)
	if err != nil {
		h.ErrLog.Respond(w, r, "approve registration", err)
		return
	}
	h.Log.Info("registration approved",
		zap.String("registration_id", p.ID),
		zap.String("member_id", m.ID),
		zap.String("role", m.Role),
		zap.String("reviewer_id", reviewer.ID))
	h.Audit.RegistrationApproved(ctx, r, p.ID, m.ID, m.Role)
	uierrors.WriteJSON(w, http.StatusOK, m.Redacted())
}

type rejectRequest struct {
	Note string `json:"note"`
}

// HandleReject handles POST /registrations/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := uierrors.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "reject: bad body", err, "Invalid request body.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "reject registration")
	defer cancel()
	r = r.WithContext(ctx)

	p, ok := h.load(w, r)
	if !ok {
		return
	}
	reviewer, _ := auth.CurrentUser(r)
	if err := h.Registrations.Reject(ctx, p.ID, reviewer.ID, req.Note); err != nil {
		h.ErrLog.Respond(w, r, "reject registration", err)
		return
	}
	h.Log.Info("registration rejected",
		zap.String("registration_id", p.ID),
		zap.String("reviewer_id", reviewer.ID))
	h.Audit.RegistrationRejected(ctx, r, p.ID)
	uierrors.WriteJSON(w, http.StatusOK, map[string]string{"id": p.ID, "status": models.PendingStatusRejected})
}
