package clientstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/pujahub/internal/app/clientstore"
	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/docstore/memstore"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind_MirrorsSnapshots(t *testing.T) {
	ds := memstore.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := ds.Add(ctx, models.CollExpenses, docstore.Fields{"category": "Decoration", "amount": 100.0})
	require.NoError(t, err)

	s := clientstore.New()
	changed := make(chan string, 16)
	s.OnChange(func(name string) { changed <- name })

	done := make(chan error, 1)
	go func() { done <- clientstore.Bind(ctx, ds, s, models.CollExpenses) }()

	waitFor(t, changed, models.CollExpenses)
	assert.True(t, s.TotalSpent().Equal(decimalOf(100)))

	_, err = ds.Add(ctx, models.CollExpenses, docstore.Fields{"category": "Lights", "amount": 50.0})
	require.NoError(t, err)
	waitFor(t, changed, models.CollExpenses)
	assert.True(t, s.TotalSpent().Equal(decimalOf(150)))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Bind did not return after cancel")
	}
}

func TestBind_BadNameFails(t *testing.T) {
	err := clientstore.Bind(context.Background(), memstore.New(), clientstore.New(), "bad/name")
	assert.ErrorIs(t, err, docstore.ErrBadCollection)
}

// Kali Puja 2025: Decoration allocated 5000, 6000 spent.
func TestKaliPujaScenario_OverBudget(t *testing.T) {
	ds := memstore.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pujaID, err := ds.Add(ctx, models.CollPujas, docstore.Fields{"name": "Kali Puja 2025", "year": 2025, "status": models.PujaPending})
	require.NoError(t, err)
	itemID, err := ds.Add(ctx, models.CollBudgetItems, docstore.Fields{"name": "Decoration"})
	require.NoError(t, err)
	_, err = ds.Add(ctx, docstore.Scoped(models.BaseBudgetAllocations, pujaID), docstore.Fields{
		"budgetItemId": itemID, "budgetItemName": "Decoration", "allocatedAmount": 5000.0, "pujaId": pujaID,
	})
	require.NoError(t, err)
	_, err = ds.Add(ctx, models.CollExpenses, docstore.Fields{"category": "Decoration", "amount": 6000.0})
	require.NoError(t, err)

	s := clientstore.New()
	s.SelectPuja(pujaID)
	names := clientstore.CollectionsFor(pujaID)

	ready := make(chan struct{})
	var once sync.Once
	s.OnChange(func(string) {
		for _, n := range names {
			if !s.Has(n) {
				return
			}
		}
		once.Do(func() { close(ready) })
	})
	go func() { _ = clientstore.Bind(ctx, ds, s, names...) }()

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("snapshots did not arrive")
	}

	row, ok := s.BudgetStatusFor(itemID)
	require.True(t, ok)
	assert.Equal(t, clientstore.StatusOverBudget, row.Status)
	assert.Equal(t, -1000.0, row.Remaining)
}

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-ch:
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestLoad_FillsEveryName(t *testing.T) {
	ds := memstore.New()
	ctx := context.Background()
	_, err := ds.Add(ctx, models.CollExpenses, docstore.Fields{"category": "Lights", "amount": 40.0})
	require.NoError(t, err)

	s := clientstore.New()
	require.NoError(t, clientstore.Load(ctx, ds, s, models.CollExpenses, models.CollTasks))
	assert.True(t, s.Has(models.CollTasks))
	assert.True(t, s.TotalSpent().Equal(decimalOf(40)))
}

// Kali Puja 2025 for club A while club B has its own Decoration spend and
// an open task. Nothing of club B may reach club A's figures.
func TestForPuja_SelectedClubOnly(t *testing.T) {
	ds := memstore.New()
	ctx := context.Background()
	now := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)

	pujaID, err := ds.Add(ctx, models.CollPujas, docstore.Fields{"name": "Kali Puja 2025", "year": 2025, "status": models.PujaActive, "clubId": "A"})
	require.NoError(t, err)
	itemID, err := ds.Add(ctx, models.CollBudgetItems, docstore.Fields{"name": "Decoration"})
	require.NoError(t, err)
	_, err = ds.Add(ctx, docstore.Scoped(models.BaseBudgetAllocations, pujaID), docstore.Fields{
		"budgetItemId": itemID, "budgetItemName": "Decoration", "allocatedAmount": 5000.0, "pujaId": pujaID,
	})
	require.NoError(t, err)
	_, err = ds.Add(ctx, models.CollExpenses, docstore.Fields{"category": "Decoration", "amount": 6000.0, "clubId": "A"})
	require.NoError(t, err)
	_, err = ds.Add(ctx, models.CollExpenses, docstore.Fields{"category": "Decoration", "amount": 9000.0, "clubId": "B"})
	require.NoError(t, err)
	_, err = ds.Add(ctx, models.CollTasks, docstore.Fields{"title": "Book dhaki", "dueDate": now.Add(48 * time.Hour).Format(time.RFC3339), "clubId": "B"})
	require.NoError(t, err)

	s, err := clientstore.ForPuja(ctx, ds, pujaID, "A")
	require.NoError(t, err)

	row, ok := s.BudgetStatusFor(itemID)
	require.True(t, ok)
	assert.Equal(t, 6000.0, row.Spent)
	assert.Equal(t, -1000.0, row.Remaining)
	assert.Equal(t, clientstore.StatusOverBudget, row.Status)
	assert.True(t, s.TotalSpent().Equal(decimalOf(6000)))
	assert.Empty(t, s.UpcomingTasks(now))
	assert.Equal(t, clientstore.Proposal{itemID: 5000}, s.QuickFixUnallocated())

	// Without a selected club every record counts.
	all, err := clientstore.ForPuja(ctx, ds, pujaID, "")
	require.NoError(t, err)
	assert.True(t, all.TotalSpent().Equal(decimalOf(15000)))
	assert.Len(t, all.UpcomingTasks(now), 1)
}
