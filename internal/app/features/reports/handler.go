// internal/app/features/reports/handler.go
package reports

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/pujahub/internal/app/clientstore"
	"github.com/dalemusser/pujahub/internal/app/docstore"
	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/features/pujas"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/csvutil"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	Store  docstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(ds docstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Store: ds, ErrLog: errLog, Log: logger}
}

func (h *Handler) mirror(w http.ResponseWriter, r *http.Request) (*clientstore.Store, models.Puja, bool) {
	p, _ := pujas.FromContext(r.Context())
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "load report")
	defer cancel()
	s, err := clientstore.ForPuja(ctx, h.Store, p.ID, authz.UserClubID(r))
	if err != nil {
		h.ErrLog.Respond(w, r, "load report", err)
		return nil, p, false
	}
	return s, p, true
}

func filename(p models.Puja, kind string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(p.Name)), "-")
	if slug == "" {
		slug = p.ID
	}
	return fmt.Sprintf("%s-%s.csv", slug, kind)
}

// ServeBudgetCSV handles GET /pujas/{pujaID}/report/budget.csv: one row per
// budget item and a totals row.
func (h *Handler) ServeBudgetCSV(w http.ResponseWriter, r *http.Request) {
	s, p, ok := h.mirror(w, r)
	if !ok {
		return
	}
	rows := s.BudgetStatuses()
	totals := s.BudgetTotals()

	csvutil.Attachment(w, filename(p, "budget"))
	cw := csvutil.NewWriter(w)
	_ = cw.Write("Item", "Category", "Allocated", "Spent", "Remaining", "Percent", "Status")
	for _, row := range rows {
		pct := ""
		if row.Percent != nil {
			pct = decimal.NewFromFloat(*row.Percent).StringFixed(1)
		}
		_ = cw.Write(row.ItemName, row.Category,
			csvutil.Money(row.Allocated), csvutil.Money(row.Spent), csvutil.Money(row.Remaining),
			pct, row.Label)
	}
	_ = cw.Write("Total", "",
		csvutil.Money(totals.TotalAllocated), csvutil.Money(totals.SpentAgainstItem),
		csvutil.Money(totals.TotalAllocated-totals.SpentAgainstItem), "", "")
	_ = cw.Write("Unallocated spend", "", "", csvutil.Money(totals.UnallocatedSpend), "", "", "")
	if err := cw.Flush(); err != nil {
		h.Log.Warn("budget csv write failed", zap.String("puja_id", p.ID), zap.Error(err))
	}
}

// ServeContributionsCSV handles GET /pujas/{pujaID}/report/contributions.csv:
// member contributions and para collections, newest first, with a total.
func (h *Handler) ServeContributionsCSV(w http.ResponseWriter, r *http.Request) {
	s, p, ok := h.mirror(w, r)
	if !ok {
		return
	}
	names := map[string]string{}
	for _, m := range s.Collection(models.CollMembers) {
		names[m.ID()] = m.String("name")
	}

	type line struct {
		at     string
		source string
		who    string
		amount decimal.Decimal
		notes  string
	}
	var lines []line
	contribs := s.Collection(docstore.Scoped(models.BaseContributions, p.ID))
	docstore.SortNewestFirst(contribs)
	for _, c := range contribs {
		who := names[c.String("memberId")]
		if who == "" {
			who = c.String("memberId")
		}
		lines = append(lines, line{c.String("createdAt"), "Member", who, decimal.NewFromFloat(c.Float("amount")), c.String("notes")})
	}
	paras := s.Collection(docstore.Scoped(models.BaseParaCollections, p.ID))
	docstore.SortNewestFirst(paras)
	for _, c := range paras {
		at := c.String("date")
		if at == "" {
			at = c.String("createdAt")
		}
		lines = append(lines, line{at, "Para", c.String("collectedBy"), decimal.NewFromFloat(c.Float("amount")), c.String("notes")})
	}

	csvutil.Attachment(w, filename(p, "contributions"))
	cw := csvutil.NewWriter(w)
	_ = cw.Write("Date", "Source", "Name", "Amount", "Notes")
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.amount)
		_ = cw.Write(l.at, l.source, l.who, l.amount.StringFixed(2), l.notes)
	}
	_ = cw.Write("", "", "Total", total.StringFixed(2), "")
	if err := cw.Flush(); err != nil {
		h.Log.Warn("contributions csv write failed", zap.String("puja_id", p.ID), zap.Error(err))
	}
}
