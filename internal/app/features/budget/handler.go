// internal/app/features/budget/handler.go
package budget

import (
	"net/http"

	"github.com/dalemusser/pujahub/internal/app/clientstore"
	"github.com/dalemusser/pujahub/internal/app/docstore"
	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/features/pujas"
	budgetstore "github.com/dalemusser/pujahub/internal/app/store/budget"
	"github.com/dalemusser/pujahub/internal/app/system/auditlog"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/inputval"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Store  docstore.Store
	Budget *budgetstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
	Audit  *auditlog.Logger
}

func NewHandler(ds docstore.Store, budget *budgetstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Store: ds, Budget: budget, ErrLog: errLog, Log: logger}
}

type overview struct {
	PujaID string                     `json:"pujaId"`
	Rows   []clientstore.BudgetStatus `json:"rows"`
	Totals clientstore.BudgetTotals   `json:"totals"`
}

type plan struct {
	Proposal clientstore.Proposal       `json:"proposal"`
	Ops      []clientstore.AllocationOp `json:"ops"`
}

type saveRequest struct {
	Allocations clientstore.Proposal `json:"allocations"`
}

type saveResponse struct {
	Result budgetstore.Result `json:"result"`
	overview
}

// mirror loads the puja in context into a fresh client store.
func (h *Handler) mirror(w http.ResponseWriter, r *http.Request) (*clientstore.Store, bool) {
	p, _ := pujas.FromContext(r.Context())
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "load budget")
	defer cancel()
	s, err := clientstore.ForPuja(ctx, h.Store, p.ID, authz.UserClubID(r))
	if err != nil {
		h.ErrLog.Respond(w, r, "load budget", err)
		return nil, false
	}
	return s, true
}

func summarize(s *clientstore.Store) overview {
	return overview{PujaID: s.SelectedPuja(), Rows: s.BudgetStatuses(), Totals: s.BudgetTotals()}
}

// ServeBudget returns every budget item's status for the puja.
func (h *Handler) ServeBudget(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mirror(w, r)
	if !ok {
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, summarize(s))
}

// HandleQuickFix proposes allocations covering unallocated spend. Nothing is
// written; the client posts the proposal back to /save.
func (h *Handler) HandleQuickFix(w http.ResponseWriter, r *http.Request) {
	s, ok := h.mirror(w, r)
	if !ok {
		return
	}
	p := s.QuickFixUnallocated()
	uierrors.WriteJSON(w, http.StatusOK, plan{Proposal: p, Ops: s.SavePlan(p)})
}

// HandleSave makes the stored allocations match the posted proposal.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var in saveRequest
	if err := uierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "save budget: bad body", err, "Invalid request body.")
		return
	}
	for _, amount := range in.Allocations {
		if amount < 0 {
			h.ErrLog.Respond(w, r, "save budget", inputval.Fail("allocations", "Allocated amounts must not be negative."))
			return
		}
	}

	s, ok := h.mirror(w, r)
	if !ok {
		return
	}
	ops := s.SavePlan(in.Allocations)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "save budget")
	defer cancel()
	res, err := h.Budget.Apply(ctx, s.SelectedPuja(), ops)
	if err != nil {
		h.Log.Warn("budget save stopped early",
			zap.String("puja_id", s.SelectedPuja()),
			zap.Int("created", res.Created),
			zap.Int("updated", res.Updated),
			zap.Int("deleted", res.Deleted))
		h.ErrLog.Respond(w, r, "save budget", err)
		return
	}

	h.Audit.BudgetSaved(ctx, r, s.SelectedPuja(), res.Created, res.Updated, res.Deleted)

	after, ok := h.mirror(w, r)
	if !ok {
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, saveResponse{Result: res, overview: summarize(after)})
}
