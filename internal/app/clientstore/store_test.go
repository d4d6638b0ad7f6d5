package clientstore_test

import (
	"math"
	"testing"
	"time"

	"github.com/dalemusser/pujahub/internal/app/clientstore"
	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const puja = "p1"

func withPuja() *clientstore.Store {
	s := clientstore.New()
	s.SelectPuja(puja)
	return s
}

func TestTotalCollected_CoalescesBadAmounts(t *testing.T) {
	s := withPuja()
	s.SetCollection(docstore.Scoped(models.BaseContributions, puja), []docstore.Record{
		{"id": "c1", "amount": 500.0},
		{"id": "c2", "amount": math.NaN()},
	})
	s.SetCollection(docstore.Scoped(models.BaseParaCollections, puja), []docstore.Record{
		{"id": "pc1", "amount": 200.0},
		{"id": "pc2"},
	})

	assert.True(t, s.TotalCollected().Equal(decimalOf(700)), "got %s", s.TotalCollected())
}

func TestTotalCollected_NoPujaSelected(t *testing.T) {
	s := clientstore.New()
	s.SetCollection(docstore.Scoped(models.BaseContributions, puja), []docstore.Record{{"amount": 500.0}})
	assert.True(t, s.TotalCollected().IsZero())
}

func TestRemainingBalance_CanGoNegative(t *testing.T) {
	s := withPuja()
	s.SetCollection(docstore.Scoped(models.BaseContributions, puja), []docstore.Record{{"amount": 1000.0}})
	s.SetCollection(models.CollExpenses, []docstore.Record{
		{"amount": 700.0},
		{"amount": "800"},
		{"amount": "n/a"},
	})

	assert.True(t, s.TotalSpent().Equal(decimalOf(1500)))
	assert.True(t, s.RemainingBalance().Equal(decimalOf(-500)))
}

func TestTotals_DecimalExact(t *testing.T) {
	s := withPuja()
	s.SetCollection(docstore.Scoped(models.BaseContributions, puja), []docstore.Record{
		{"amount": 0.1}, {"amount": 0.2},
	})
	assert.Equal(t, "0.3", s.TotalCollected().String())
}

func TestSetCollection_FullReplacement(t *testing.T) {
	s := clientstore.New()
	s.SetCollection(models.CollTasks, []docstore.Record{{"id": "a"}, {"id": "b"}})
	s.SetCollection(models.CollTasks, []docstore.Record{{"id": "c"}})

	got := s.Collection(models.CollTasks)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID())
	assert.True(t, s.Has(models.CollTasks))
	assert.False(t, s.Has(models.CollEvents))
}

func TestSetCollection_CallerSliceNotAliased(t *testing.T) {
	s := clientstore.New()
	recs := []docstore.Record{{"id": "a"}}
	s.SetCollection(models.CollTasks, recs)
	recs[0] = docstore.Record{"id": "mutated"}

	assert.Equal(t, "a", s.Collection(models.CollTasks)[0].ID())
}

func TestOnChange_NotifiesAndRemoves(t *testing.T) {
	s := clientstore.New()
	var seen []string
	remove := s.OnChange(func(name string) { seen = append(seen, name) })

	s.SetCollection(models.CollTasks, nil)
	s.SelectPuja("p9")
	remove()
	s.SetCollection(models.CollEvents, nil)

	assert.Equal(t, []string{models.CollTasks, ""}, seen)
}

func TestUpcomingTasks(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	s := clientstore.New()
	s.SetCollection(models.CollTasks, []docstore.Record{
		{"id": "late", "title": "Pandal", "dueDate": "2025-10-25", "completed": false},
		{"id": "done", "title": "Idol", "dueDate": "2025-10-20", "completed": true},
		{"id": "soon", "title": "Lights", "dueDate": "2025-10-18", "completed": false},
		{"id": "past", "title": "Permit", "dueDate": "2025-10-01", "completed": false},
		{"id": "exact", "title": "Now", "dueDate": "2025-10-15T12:00:00Z"},
		{"id": "nodate", "title": "Whenever"},
	})

	got := s.UpcomingTasks(now)
	require.Len(t, got, 2)
	assert.Equal(t, "soon", got[0].ID)
	assert.Equal(t, "late", got[1].ID)
}

func TestPendingItems(t *testing.T) {
	s := clientstore.New()
	s.SetCollection(models.CollInventory, []docstore.Record{
		{"id": "i1", "name": "Flowers", "received": false},
		{"id": "i2", "name": "Lamps", "received": true},
		{"id": "i3", "name": "Incense"},
	})

	got := s.PendingItems()
	require.Len(t, got, 2)
	assert.Equal(t, "Flowers", got[0].Name)
	assert.Equal(t, "Incense", got[1].Name)
}

func TestFilteredMembers(t *testing.T) {
	s := clientstore.New()
	s.SetCollection(models.CollMembers, []docstore.Record{
		{"id": "m1", "name": "Asha", "clubId": "c1"},
		{"id": "m2", "name": "Bimal", "clubId": "c2"},
		{"id": "m3", "name": "Chandan", "clubId": "c1"},
		{"id": "m4", "name": "Dipa"},
	})

	all := s.FilteredMembers()
	assert.Len(t, all, 4, "no club selected must pass through")

	s.SelectClub("c1")
	got := s.FilteredMembers()
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m3", got[1].ID)
}

func TestFilteredOthers(t *testing.T) {
	s := clientstore.New()
	s.SelectClub("c1")
	s.SetCollection(models.CollExpenses, []docstore.Record{{"id": "e1", "clubId": "c1"}, {"id": "e2", "clubId": "c2"}})
	s.SetCollection(models.CollEvents, []docstore.Record{{"id": "ev1", "clubId": "c2"}})
	s.SetCollection(models.CollParticipants, []docstore.Record{{"id": "pa1", "clubId": "c1"}})

	assert.Len(t, s.FilteredExpenses(), 1)
	assert.Empty(t, s.FilteredEvents())
	assert.Len(t, s.FilteredParticipants(), 1)
}

func TestCollectionsFor(t *testing.T) {
	names := clientstore.CollectionsFor("p7")
	assert.Contains(t, names, "Contributions_p7")
	assert.Contains(t, names, "BudgetAllocations_p7")
	assert.Contains(t, names, "ParaCollections_p7")
	assert.Contains(t, names, models.CollExpenses)

	assert.NotContains(t, clientstore.CollectionsFor(""), "Contributions_")
}
