// internal/app/features/records/handler.go
package records

import (
	"net/http"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/features/pujas"
	recordstore "github.com/dalemusser/pujahub/internal/app/store/records"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves one record kind. Scoped kinds read their puja from the
// enclosing /pujas/{pujaID} route.
type Handler struct {
	Kind    recordstore.Kind
	Records *recordstore.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(kind recordstore.Kind, records *recordstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Kind: kind, Records: records, ErrLog: errLog, Log: logger.With(zap.String("kind", kind.Name))}
}

func pujaID(r *http.Request) string {
	if p, ok := pujas.FromContext(r.Context()); ok {
		return p.ID
	}
	return ""
}

// ServeList handles GET on the collection.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list "+h.Kind.Name)
	defer cancel()

	recs, err := h.Records.List(ctx, h.Kind, pujaID(r), authz.UserClubID(r))
	if err != nil {
		h.ErrLog.Respond(w, r, "load "+h.Kind.Action+"s", err)
		return
	}
	docstore.SortNewestFirst(recs)
	if recs == nil {
		recs = []docstore.Record{}
	}
	uierrors.WriteJSON(w, http.StatusOK, recs)
}

// HandleCreate handles POST on the collection.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var fields docstore.Fields
	if err := uierrors.DecodeJSON(w, r, &fields); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create: bad body", err, "Invalid request body.")
		return
	}
	clubID := authz.UserClubID(r)
	if !authz.IsPlatformAdmin(r) {
		delete(fields, "clubId")
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create "+h.Kind.Name)
	defer cancel()

	rec, err := h.Records.Create(ctx, h.Kind, pujaID(r), clubID, fields)
	if err != nil {
		h.ErrLog.Respond(w, r, "add "+h.Kind.Action, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, rec)
}

// HandleUpdate handles PUT /{id} with a partial document.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var fields docstore.Fields
	if err := uierrors.DecodeJSON(w, r, &fields); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update: bad body", err, "Invalid request body.")
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update "+h.Kind.Name)
	defer cancel()
	r = r.WithContext(ctx)

	if !h.owned(w, r) {
		return
	}
	rec, err := h.Records.Update(ctx, h.Kind, pujaID(r), chi.URLParam(r, "id"), fields)
	if err != nil {
		h.ErrLog.Respond(w, r, "update "+h.Kind.Action, err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, rec)
}

// HandleDelete handles DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete "+h.Kind.Name)
	defer cancel()
	r = r.WithContext(ctx)

	if !h.owned(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Records.Delete(ctx, h.Kind, pujaID(r), id); err != nil {
		h.ErrLog.Respond(w, r, "delete "+h.Kind.Action, err)
		return
	}
	h.Log.Info("record deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

// owned checks a club-owned record belongs to a club the caller may write.
func (h *Handler) owned(w http.ResponseWriter, r *http.Request) bool {
	if !h.Kind.ClubOwned {
		return true
	}
	rec, err := h.Records.Get(r.Context(), h.Kind, pujaID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Respond(w, r, "load "+h.Kind.Action, err)
		return false
	}
	if !authz.CanAccessClub(r, rec.String("clubId")) {
		uierrors.WriteError(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}
