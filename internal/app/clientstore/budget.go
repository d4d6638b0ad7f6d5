// internal/app/clientstore/budget.go
package clientstore

import (
	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/shopspring/decimal"
)

// Budget status values.
const (
	StatusGood         = "good"
	StatusOnTrack      = "on-track"
	StatusWarning      = "warning"
	StatusOverBudget   = "over-budget"
	StatusNoAllocation = "no-allocation"
)

var (
	hundred = decimal.NewFromInt(100)

	warnRatio    = decimal.NewFromFloat(0.8)
	onTrackRatio = decimal.NewFromFloat(0.5)
)

// Classify returns the status for allocated A and spent S and the spent
// percentage. The percentage is nil when there is no allocation.
//
// Boundaries are inclusive: S/A >= 1 is over-budget, >= 0.8 warning,
// >= 0.5 on-track. A == 0 with S > 0 is no-allocation; A == 0 with S == 0
// is good with no percentage ("No budget").
func Classify(allocated, spent decimal.Decimal) (string, *float64) {
	if !allocated.IsPositive() {
		if spent.IsPositive() {
			return StatusNoAllocation, nil
		}
		return StatusGood, nil
	}
	ratio := spent.DivRound(allocated, 16)
	pct := ratio.Mul(hundred).Round(2).InexactFloat64()

	switch {
	case spent.GreaterThanOrEqual(allocated):
		return StatusOverBudget, &pct
	case ratio.GreaterThanOrEqual(warnRatio):
		return StatusWarning, &pct
	case ratio.GreaterThanOrEqual(onTrackRatio):
		return StatusOnTrack, &pct
	}
	return StatusGood, &pct
}

// Label is the human text for a status row.
func Label(status string, hasBudget bool) string {
	switch status {
	case StatusOverBudget:
		return "Over budget"
	case StatusWarning:
		return "Warning"
	case StatusOnTrack:
		return "On track"
	case StatusNoAllocation:
		return "No allocation"
	}
	if !hasBudget {
		return "No budget"
	}
	return "Good"
}

// BudgetStatus is one budget item evaluated for the selected puja.
type BudgetStatus struct {
	ItemID       string   `json:"itemId"`
	ItemName     string   `json:"itemName"`
	Category     string   `json:"category,omitempty"`
	AllocationID string   `json:"allocationId,omitempty"`
	Allocated    float64  `json:"allocated"`
	Spent        float64  `json:"spent"`
	Remaining    float64  `json:"remaining"`
	Percent      *float64 `json:"percent"`
	Status       string   `json:"status"`
	Label        string   `json:"label"`
}

// allocationsByItem maps budget item id to its allocation record for the
// selected puja. With duplicate rows the first in snapshot order wins.
func (s *Store) allocationsByItem() map[string]docstore.Record {
	out := map[string]docstore.Record{}
	for _, r := range s.scoped(models.BaseBudgetAllocations) {
		id := r.String("budgetItemId")
		if id == "" {
			continue
		}
		if _, seen := out[id]; !seen {
			out[id] = r
		}
	}
	return out
}

// spentByCategory sums the selected club's expenses per category string.
func (s *Store) spentByCategory() map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{}
	for _, r := range s.byClub(models.CollExpenses) {
		cat := r.String("category")
		out[cat] = out[cat].Add(decimal.NewFromFloat(r.Float(fieldAmount)))
	}
	return out
}

// BudgetStatuses evaluates every budget item, in snapshot order. Spent for
// an item is the sum of expenses whose category equals the item's name.
func (s *Store) BudgetStatuses() []BudgetStatus {
	allocs := s.allocationsByItem()
	spent := s.spentByCategory()

	items := s.Collection(models.CollBudgetItems)
	out := make([]BudgetStatus, 0, len(items))
	for _, item := range items {
		name := item.String("name")
		a := decimal.Zero
		allocID := ""
		if rec, ok := allocs[item.ID()]; ok {
			a = decimal.NewFromFloat(rec.Float("allocatedAmount"))
			allocID = rec.ID()
		}
		sp := spent[name]
		status, pct := Classify(a, sp)
		out = append(out, BudgetStatus{
			ItemID:       item.ID(),
			ItemName:     name,
			Category:     item.String("category"),
			AllocationID: allocID,
			Allocated:    a.InexactFloat64(),
			Spent:        sp.InexactFloat64(),
			Remaining:    a.Sub(sp).InexactFloat64(),
			Percent:      pct,
			Status:       status,
			Label:        Label(status, a.IsPositive()),
		})
	}
	return out
}

// BudgetStatusFor returns the row for one item.
func (s *Store) BudgetStatusFor(itemID string) (BudgetStatus, bool) {
	for _, st := range s.BudgetStatuses() {
		if st.ItemID == itemID {
			return st, true
		}
	}
	return BudgetStatus{}, false
}

// BudgetTotals aggregates the status rows.
type BudgetTotals struct {
	TotalAllocated   float64        `json:"totalAllocated"`
	SpentAgainstItem float64        `json:"spentAgainstItems"`
	UnallocatedSpend float64        `json:"unallocatedSpend"`
	Counts           map[string]int `json:"counts"`
}

// BudgetTotals sums the rows. UnallocatedSpend is expense money whose
// category matches no budget item.
func (s *Store) BudgetTotals() BudgetTotals {
	rows := s.BudgetStatuses()
	t := BudgetTotals{Counts: map[string]int{}}
	allocated, against := decimal.Zero, decimal.Zero
	names := map[string]bool{}
	for _, r := range rows {
		allocated = allocated.Add(decimal.NewFromFloat(r.Allocated))
		against = against.Add(decimal.NewFromFloat(r.Spent))
		names[r.ItemName] = true
		t.Counts[r.Status]++
	}
	loose := decimal.Zero
	for cat, amt := range s.spentByCategory() {
		if !names[cat] {
			loose = loose.Add(amt)
		}
	}
	t.TotalAllocated = allocated.InexactFloat64()
	t.SpentAgainstItem = against.InexactFloat64()
	t.UnallocatedSpend = loose.InexactFloat64()
	return t
}

// Proposal maps budget item id to a proposed allocated amount.
type Proposal map[string]float64

// CurrentAllocations is the proposal that matches what is stored now.
func (s *Store) CurrentAllocations() Proposal {
	p := Proposal{}
	for _, st := range s.BudgetStatuses() {
		p[st.ItemID] = st.Allocated
	}
	return p
}

// QuickFixUnallocated proposes A := S for every item with no allocation and
// positive spend, and keeps every other item's current amount. Nothing is
// written; the result only depends on the current snapshots.
func (s *Store) QuickFixUnallocated() Proposal {
	p := Proposal{}
	for _, st := range s.BudgetStatuses() {
		if st.Status == StatusNoAllocation {
			p[st.ItemID] = st.Spent
			continue
		}
		p[st.ItemID] = st.Allocated
	}
	return p
}

// Allocation operations produced by SavePlan.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// AllocationOp is one write needed to make stored allocations match a
// proposal.
type AllocationOp struct {
	Kind               string  `json:"kind"`
	AllocationID       string  `json:"allocationId,omitempty"`
	BudgetItemID       string  `json:"budgetItemId"`
	BudgetItemName     string  `json:"budgetItemName"`
	BudgetItemCategory string  `json:"budgetItemCategory,omitempty"`
	Amount             float64 `json:"amount"`
}

// SavePlan walks the budget items and lists the writes that bring the
// selected puja's allocations in line with p: a positive amount creates or
// updates, a zero amount deletes an existing allocation. Items missing from
// p and amounts that already match are skipped.
func (s *Store) SavePlan(p Proposal) []AllocationOp {
	allocs := s.allocationsByItem()
	var ops []AllocationOp
	for _, item := range s.Collection(models.CollBudgetItems) {
		amount, ok := p[item.ID()]
		if !ok {
			continue
		}
		op := AllocationOp{
			BudgetItemID:       item.ID(),
			BudgetItemName:     item.String("name"),
			BudgetItemCategory: item.String("category"),
			Amount:             amount,
		}
		existing, has := allocs[item.ID()]
		switch {
		case amount > 0 && has:
			if existing.Float("allocatedAmount") == amount {
				continue
			}
			op.Kind = OpUpdate
			op.AllocationID = existing.ID()
		case amount > 0:
			op.Kind = OpCreate
		case has:
			op.Kind = OpDelete
			op.AllocationID = existing.ID()
			op.Amount = 0
		default:
			continue
		}
		ops = append(ops, op)
	}
	return ops
}
