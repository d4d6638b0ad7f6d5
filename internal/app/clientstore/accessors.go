// internal/app/clientstore/accessors.go
package clientstore

import (
	"sort"
	"time"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/shopspring/decimal"
)

const (
	fieldAmount   = "amount"
	fieldClubID   = "clubId"
	fieldDueDate  = "dueDate"
	fieldDone     = "completed"
	fieldReceived = "received"
)

// sum adds field across recs. Missing, non-numeric, NaN and infinite values
// count as zero.
func sum(recs []docstore.Record, field string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range recs {
		total = total.Add(decimal.NewFromFloat(r.Float(field)))
	}
	return total
}

// TotalCollected is the sum of the selected puja's contributions and para
// collections.
func (s *Store) TotalCollected() decimal.Decimal {
	return sum(s.scoped(models.BaseContributions), fieldAmount).
		Add(sum(s.scoped(models.BaseParaCollections), fieldAmount))
}

// TotalSpent is the sum of the selected club's expenses. With no club
// selected every mirrored expense counts.
func (s *Store) TotalSpent() decimal.Decimal {
	return sum(s.byClub(models.CollExpenses), fieldAmount)
}

// RemainingBalance may be negative.
func (s *Store) RemainingBalance() decimal.Decimal {
	return s.TotalCollected().Sub(s.TotalSpent())
}

// UpcomingTasks returns the selected club's open tasks due strictly after now, soonest first.
// Tasks without a parseable due date are left out.
func (s *Store) UpcomingTasks(now time.Time) []models.Task {
	type due struct {
		task models.Task
		at   time.Time
	}
	var list []due
	for _, r := range s.byClub(models.CollTasks) {
		if r.Bool(fieldDone) {
			continue
		}
		at, ok := r.Time(fieldDueDate)
		if !ok || !at.After(now) {
			continue
		}
		var t models.Task
		if err := docstore.Decode(r, &t); err != nil {
			continue
		}
		list = append(list, due{task: t, at: at})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].at.Before(list[j].at) })

	out := make([]models.Task, len(list))
	for i, d := range list {
		out[i] = d.task
	}
	return out
}

// PendingItems returns inventory items not yet received.
func (s *Store) PendingItems() []models.InventoryItem {
	var pending []docstore.Record
	for _, r := range s.Collection(models.CollInventory) {
		if !r.Bool(fieldReceived) {
			pending = append(pending, r)
		}
	}
	return docstore.DecodeAll[models.InventoryItem](pending)
}

// byClub keeps records whose clubId equals the selected club, preserving
// order. With no club selected it passes everything through.
func (s *Store) byClub(name string) []docstore.Record {
	recs := s.Collection(name)
	club := s.SelectedClub()
	if club == "" {
		return recs
	}
	out := make([]docstore.Record, 0, len(recs))
	for _, r := range recs {
		if r.String(fieldClubID) == club {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) FilteredMembers() []models.Member {
	return docstore.DecodeAll[models.Member](s.byClub(models.CollMembers))
}

func (s *Store) FilteredExpenses() []models.Expense {
	return docstore.DecodeAll[models.Expense](s.byClub(models.CollExpenses))
}

func (s *Store) FilteredEvents() []models.Event {
	return docstore.DecodeAll[models.Event](s.byClub(models.CollEvents))
}

func (s *Store) FilteredParticipants() []models.Participant {
	return docstore.DecodeAll[models.Participant](s.byClub(models.CollParticipants))
}

// Summary is the dashboard view of the selected puja.
type Summary struct {
	PujaID           string       `json:"pujaId"`
	TotalCollected   float64      `json:"totalCollected"`
	TotalSpent       float64      `json:"totalSpent"`
	RemainingBalance float64      `json:"remainingBalance"`
	UpcomingTasks    int          `json:"upcomingTasks"`
	PendingItems     int          `json:"pendingItems"`
	Budget           BudgetTotals `json:"budget"`
}

func (s *Store) Summary(now time.Time) Summary {
	return Summary{
		PujaID:           s.SelectedPuja(),
		TotalCollected:   s.TotalCollected().InexactFloat64(),
		TotalSpent:       s.TotalSpent().InexactFloat64(),
		RemainingBalance: s.RemainingBalance().InexactFloat64(),
		UpcomingTasks:    len(s.UpcomingTasks(now)),
		PendingItems:     len(s.PendingItems()),
		Budget:           s.BudgetTotals(),
	}
}
