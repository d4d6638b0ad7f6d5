package pujastore_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/policy/pujapolicy"
	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	pujastore "github.com/dalemusser/pujahub/internal/app/store/pujas"
	"github.com/dalemusser/pujahub/internal/app/system/inputval"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/dalemusser/pujahub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_StartsPending(t *testing.T) {
	store := pujastore.New(testutil.NewMemStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Create(ctx, pujastore.Input{Name: "Kali Puja 2025", Year: 2025, StartDate: "2025-10-20", EndDate: "2025-10-22"})
	require.NoError(t, err)
	assert.Equal(t, models.PujaPending, p.Status)
	assert.Equal(t, 2025, p.Year)
	assert.NotEmpty(t, p.ID)
}

func TestCreate_Validation(t *testing.T) {
	store := pujastore.New(testutil.NewMemStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name  string
		in    pujastore.Input
		field string
	}{
		{"no name", pujastore.Input{Year: 2025}, "name"},
		{"no year", pujastore.Input{Name: "Durga Puja"}, "year"},
		{"bad date", pujastore.Input{Name: "Durga Puja", Year: 2025, StartDate: "20/10/2025"}, "startDate"},
		{"end before start", pujastore.Input{Name: "Durga Puja", Year: 2025, StartDate: "2025-10-22", EndDate: "2025-10-20"}, "endDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.in)
			var verr *inputval.Error
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Map(), tt.field)
		})
	}
}

func TestSetStatus(t *testing.T) {
	store := pujastore.New(testutil.NewMemStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Create(ctx, pujastore.Input{Name: "Kali Puja 2025", Year: 2025})
	require.NoError(t, err)

	p, err = store.SetStatus(ctx, tierpolicy.User, p.ID, models.PujaActive)
	require.NoError(t, err)
	assert.Equal(t, models.PujaActive, p.Status)

	p, err = store.SetStatus(ctx, tierpolicy.Admin, p.ID, models.PujaPending)
	require.NoError(t, err)
	assert.Equal(t, models.PujaPending, p.Status)

	_, err = store.SetStatus(ctx, tierpolicy.Admin, p.ID, models.PujaCompleted)
	assert.ErrorIs(t, err, pujapolicy.ErrForbidden)

	p, err = store.SetStatus(ctx, tierpolicy.SuperAdmin, p.ID, models.PujaCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.PujaCompleted, p.Status)

	_, err = store.SetStatus(ctx, tierpolicy.SuperAdmin, p.ID, models.PujaActive)
	assert.ErrorIs(t, err, pujapolicy.ErrInvalidTransition)

	_, err = store.SetStatus(ctx, tierpolicy.SuperAdmin, p.ID, "archived")
	assert.ErrorIs(t, err, pujapolicy.ErrInvalidStatus)
}

func TestDelete_LeavesScopedCollections(t *testing.T) {
	ds := testutil.NewMemStore(t)
	fx := testutil.NewFixtures(t, ds)
	store := pujastore.New(ds)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreatePuja(ctx, "Saraswati Puja", 2026, models.PujaActive, "")
	fx.CreateContribution(ctx, p.ID, "m1", 500)

	require.NoError(t, store.Delete(ctx, p.ID))
	_, err := store.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	left, err := ds.List(ctx, docstore.Scoped(models.BaseContributions, p.ID))
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestList_ByClub(t *testing.T) {
	ds := testutil.NewMemStore(t)
	fx := testutil.NewFixtures(t, ds)
	store := pujastore.New(ds)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreatePuja(ctx, "A", 2025, models.PujaPending, "c1")
	fx.CreatePuja(ctx, "B", 2025, models.PujaPending, "c2")

	got, err := store.List(ctx, "c2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Name)
}

func TestOrphans(t *testing.T) {
	ds := testutil.NewMemStore(t)
	fx := testutil.NewFixtures(t, ds)
	store := pujastore.New(ds)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	live := fx.CreatePuja(ctx, "Durga Puja", 2025, models.PujaActive, "")
	gone := fx.CreatePuja(ctx, "Kali Puja", 2024, models.PujaCompleted, "")
	fx.CreateContribution(ctx, live.ID, "m1", 101)
	fx.CreateContribution(ctx, gone.ID, "m1", 51)
	require.NoError(t, store.Delete(ctx, gone.ID))

	orphans, err := store.Orphans(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, gone.ID, orphans[0].PujaID)
	assert.Equal(t, models.BaseContributions, orphans[0].Base)
}
