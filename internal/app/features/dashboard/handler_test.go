package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/features/dashboard"
	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/features/pujas"
	pujastore "github.com/dalemusser/pujahub/internal/app/store/pujas"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/dalemusser/pujahub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServeDashboard(t *testing.T) {
	ds := testutil.NewMemStore(t)
	fx := testutil.NewFixtures(t, ds)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, logger)
	require.NoError(t, err)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreatePuja(ctx, "Saraswati Puja", 2026, models.PujaActive, "")
	fx.CreateContribution(ctx, p.ID, "m1", 1001)
	fx.CreateExpense(ctx, "Flowers", 500, "")
	_, err = ds.Add(ctx, models.CollTasks, docstore.Fields{"title": "Book dhaki", "priority": "high", "dueDate": "2026-01-20"})
	require.NoError(t, err)
	_, err = ds.Add(ctx, models.CollTasks, docstore.Fields{"title": "Order idol", "priority": "high", "dueDate": "2025-12-01"})
	require.NoError(t, err)
	_, err = ds.Add(ctx, models.CollInventory, docstore.Fields{"name": "Diyas", "quantity": 100.0})
	require.NoError(t, err)

	h := dashboard.NewHandler(ds, errLog, logger)
	h.Now = func() time.Time { return time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC) }
	sub := pujas.Sub{Path: "/dashboard", Handler: dashboard.Routes(h, sm)}
	router := pujas.Routes(pujas.NewHandler(pujastore.New(ds), errLog, logger), sm, sub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/"+p.ID+"/dashboard"), testutil.MemberUser()))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Puja          models.Puja            `json:"puja"`
		Summary       map[string]any         `json:"summary"`
		UpcomingTasks []models.Task          `json:"upcomingTasks"`
		PendingItems  []models.InventoryItem `json:"pendingItems"`
	}
	require.NoError(t, testutil.DecodeJSON(rec, &got))
	assert.Equal(t, p.ID, got.Puja.ID)
	assert.Equal(t, 1001.0, got.Summary["totalCollected"])
	assert.Equal(t, 500.0, got.Summary["totalSpent"])
	assert.Equal(t, 501.0, got.Summary["remainingBalance"])
	require.Len(t, got.UpcomingTasks, 1)
	assert.Equal(t, "Book dhaki", got.UpcomingTasks[0].Title)
	require.Len(t, got.PendingItems, 1)
}

func TestServeDashboard_SignedOut(t *testing.T) {
	ds := testutil.NewMemStore(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, logger)
	require.NoError(t, err)
	router := pujas.Routes(pujas.NewHandler(pujastore.New(ds), uierrors.NewErrorLogger(logger), logger), sm,
		pujas.Sub{Path: "/dashboard", Handler: dashboard.Routes(dashboard.NewHandler(ds, uierrors.NewErrorLogger(logger), logger), sm)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/any/dashboard"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServeDashboard_OtherClubExcluded(t *testing.T) {
	ds := testutil.NewMemStore(t)
	fx := testutil.NewFixtures(t, ds)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, logger)
	require.NoError(t, err)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreatePuja(ctx, "Kali Puja", 2026, models.PujaActive, "club-a")
	fx.CreateContribution(ctx, p.ID, "m1", 1000)
	fx.CreateExpense(ctx, "Flowers", 400, "club-a")
	fx.CreateExpense(ctx, "Flowers", 9000, "club-b")
	_, err = ds.Add(ctx, models.CollTasks, docstore.Fields{"title": "Book dhaki", "priority": "high", "dueDate": "2026-01-20", "clubId": "club-b"})
	require.NoError(t, err)

	h := dashboard.NewHandler(ds, errLog, logger)
	h.Now = func() time.Time { return time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC) }
	sub := pujas.Sub{Path: "/dashboard", Handler: dashboard.Routes(h, sm)}
	router := pujas.Routes(pujas.NewHandler(pujastore.New(ds), errLog, logger), sm, sub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/"+p.ID+"/dashboard"), testutil.ClubAdminUser("club-a")))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Summary       map[string]any `json:"summary"`
		UpcomingTasks []models.Task  `json:"upcomingTasks"`
	}
	require.NoError(t, testutil.DecodeJSON(rec, &got))
	assert.Equal(t, 400.0, got.Summary["totalSpent"])
	assert.Equal(t, 600.0, got.Summary["remainingBalance"])
	assert.Empty(t, got.UpcomingTasks)
}
