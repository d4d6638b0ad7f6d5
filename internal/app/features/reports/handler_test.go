package reports_test

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/features/pujas"
	"github.com/dalemusser/pujahub/internal/app/features/reports"
	pujastore "github.com/dalemusser/pujahub/internal/app/store/pujas"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/dalemusser/pujahub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (http.Handler, models.Puja) {
	t.Helper()
	ds := testutil.NewMemStore(t)
	fx := testutil.NewFixtures(t, ds)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, logger)
	require.NoError(t, err)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := fx.CreatePuja(ctx, "Durga Puja", 2025, models.PujaActive, "")
	deco := fx.CreateBudgetItem(ctx, "Decoration", "Pandal")
	fx.Allocate(ctx, p.ID, deco, 5000)
	fx.CreateExpense(ctx, "Decoration", 6000, "")
	fx.CreateExpense(ctx, "Lights", 300, "")
	m := fx.CreateMember(ctx, "=Asha Sen", "asha@test.com", "9876543210", models.RoleMember, "", "password1")
	fx.CreateContribution(ctx, p.ID, m.ID, 1001)
	_, err = ds.Add(ctx, docstore.Scoped(models.BaseParaCollections, p.ID), docstore.Fields{
		"amount": 250.5, "collectedBy": "Bappa", "date": "2025-09-20",
	})
	require.NoError(t, err)

	sub := pujas.Sub{Path: "/report", Handler: reports.Routes(reports.NewHandler(ds, errLog, logger), sm)}
	return pujas.Routes(pujas.NewHandler(pujastore.New(ds), errLog, logger), sm, sub), p
}

func fetch(t *testing.T, router http.Handler, target string, u *testutil.TestUser) (*httptest.ResponseRecorder, [][]string) {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	if u != nil {
		req = testutil.WithUser(req, *u)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return rec, nil
	}
	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	return rec, rows
}

func TestBudgetCSV(t *testing.T) {
	router, p := setup(t)
	member := testutil.MemberUser()

	rec, rows := fetch(t, router, "/"+p.ID+"/report/budget.csv", &member)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `attachment; filename="durga-puja-budget.csv"`, rec.Header().Get("Content-Disposition"))

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Item", "Category", "Allocated", "Spent", "Remaining", "Percent", "Status"}, rows[0])
	assert.Equal(t, []string{"Decoration", "Pandal", "5000.00", "6000.00", "-1000.00", "120.0", "Over budget"}, rows[1])
	assert.Equal(t, "Total", rows[2][0])
	assert.Equal(t, []string{"Unallocated spend", "", "", "300.00", "", "", ""}, rows[3])
}

func TestContributionsCSV(t *testing.T) {
	router, p := setup(t)
	member := testutil.MemberUser()

	rec, rows := fetch(t, router, "/"+p.ID+"/report/contributions.csv", &member)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "Source", "Name", "Amount", "Notes"}, rows[0])
	assert.Equal(t, "Member", rows[1][1])
	assert.Equal(t, "'=Asha Sen", rows[1][2])
	assert.Equal(t, "1001.00", rows[1][3])
	assert.Equal(t, []string{"2025-09-20", "Para", "Bappa", "250.50", ""}, rows[2])
	assert.Equal(t, []string{"", "", "Total", "1251.50", ""}, rows[3])
}

func TestReports_SignedOut(t *testing.T) {
	router, p := setup(t)
	rec, _ := fetch(t, router, "/"+p.ID+"/report/budget.csv", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReports_UnknownPuja(t *testing.T) {
	router, _ := setup(t)
	member := testutil.MemberUser()
	rec, _ := fetch(t, router, "/missing/report/budget.csv", &member)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
