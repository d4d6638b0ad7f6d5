// internal/app/features/pujas/handler.go
package pujas

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/policy/pujapolicy"
	pujastore "github.com/dalemusser/pujahub/internal/app/store/pujas"
	"github.com/dalemusser/pujahub/internal/app/system/auditlog"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Param is the URL parameter naming the puja in every /pujas/{pujaID} route,
// including the features mounted beneath it.
const Param = "pujaID"

type Handler struct {
	Pujas  *pujastore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
	Audit  *auditlog.Logger
}

func NewHandler(pujas *pujastore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Pujas: pujas, ErrLog: errLog, Log: logger}
}

type ctxKey struct{}

// FromContext returns the puja loaded by Load.
func FromContext(ctx context.Context) (models.Puja, bool) {
	p, ok := ctx.Value(ctxKey{}).(models.Puja)
	return p, ok
}

// WithPuja stores p the way Load does.
func WithPuja(ctx context.Context, p models.Puja) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Load resolves {pujaID}, checks the caller may see its club and makes the
// puja available through FromContext.
func (h *Handler) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load puja")
		p, err := h.Pujas.GetByID(ctx, chi.URLParam(r, Param))
		cancel()
		if err != nil {
			h.ErrLog.Respond(w, r, "load puja", err)
			return
		}
		if !authz.CanAccessClub(r, p.ClubID) {
			uierrors.WriteError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPuja(r.Context(), p)))
	})
}

// ServeList handles GET /pujas.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list pujas")
	defer cancel()

	list, err := h.Pujas.List(ctx, authz.UserClubID(r))
	if err != nil {
		h.ErrLog.Respond(w, r, "load pujas", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, list)
}

type pujaView struct {
	models.Puja
	Transitions []string `json:"transitions"`
}

// ServeView handles GET /pujas/{pujaID}. Transitions lists the statuses the
// caller may move the puja to.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	p, _ := FromContext(r.Context())
	uierrors.WriteJSON(w, http.StatusOK, pujaView{
		Puja:        p,
		Transitions: pujapolicy.Next(authz.Tier(r), p.Status),
	})
}

// HandleCreate handles POST /pujas. New pujas start pending.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in pujastore.Input
	if err := uierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create puja: bad body", err, "Invalid request body.")
		return
	}
	if !authz.IsPlatformAdmin(r) || in.ClubID == "" {
		in.ClubID = authz.UserClubID(r)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create puja")
	defer cancel()

	p, err := h.Pujas.Create(ctx, in)
	if err != nil {
		h.ErrLog.Respond(w, r, "add puja", err)
		return
	}
	h.Log.Info("puja created", zap.String("puja_id", p.ID), zap.String("name", p.Name), zap.Int("year", p.Year))
	uierrors.WriteJSON(w, http.StatusCreated, p)
}

// HandleEdit handles PUT /pujas/{pujaID}. The status is changed through
// HandleStatus only.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	cur, _ := FromContext(r.Context())
	var in pujastore.Input
	if err := uierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "edit puja: bad body", err, "Invalid request body.")
		return
	}
	if !authz.IsPlatformAdmin(r) || in.ClubID == "" {
		in.ClubID = cur.ClubID
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update puja")
	defer cancel()

	p, err := h.Pujas.Update(ctx, cur.ID, in)
	if err != nil {
		h.ErrLog.Respond(w, r, "update puja", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, p)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleStatus handles POST /pujas/{pujaID}/status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	cur, _ := FromContext(r.Context())
	var req statusRequest
	if err := uierrors.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "puja status: bad body", err, "Invalid request body.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "set puja status")
	defer cancel()

	p, err := h.Pujas.SetStatus(ctx, authz.Tier(r), cur.ID, req.Status)
	if err != nil {
		h.ErrLog.Respond(w, r, "update puja status", err)
		return
	}
	if p.Status != cur.Status {
		h.Log.Info("puja status changed",
			zap.String("puja_id", p.ID),
			zap.String("from", cur.Status),
			zap.String("to", p.Status))
		h.Audit.PujaStatusChanged(ctx, r, p.ID, cur.Status, p.Status)
	}
	uierrors.WriteJSON(w, http.StatusOK, p)
}

// HandleDelete handles DELETE /pujas/{pujaID}. The puja's scoped
// collections are not removed.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	cur, _ := FromContext(r.Context())
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete puja")
	defer cancel()

	if err := h.Pujas.Delete(ctx, cur.ID); err != nil {
		h.ErrLog.Respond(w, r, "delete puja", err)
		return
	}
	h.Log.Info("puja deleted", zap.String("puja_id", cur.ID))
	h.Audit.PujaDeleted(ctx, r, cur.ID)
	w.WriteHeader(http.StatusNoContent)
}
