package registrations_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/features/registrations"
	memberstore "github.com/dalemusser/pujahub/internal/app/store/members"
	registrationstore "github.com/dalemusser/pujahub/internal/app/store/registrations"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/dalemusser/pujahub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	router http.Handler
	store  *registrationstore.Store
	fx     *testutil.Fixtures
}

func newEnv(t *testing.T) env {
	t.Helper()
	ds := testutil.NewMemStore(t)
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, zap.NewNop())
	require.NoError(t, err)
	store := registrationstore.New(ds)
	h := registrations.NewHandler(store, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	return env{router: registrations.Routes(h, sm), store: store, fx: testutil.NewFixtures(t, ds)}
}

func (e env) submit(t *testing.T, email, contact, clubID string) models.PendingMember {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p, err := e.store.Submit(ctx, registrationstore.Input{
		Name: "Ritu Sen", Email: email, Contact: contact,
		Password: "secret1", ConfirmPassword: "secret1", ClubID: clubID,
	})
	require.NoError(t, err)
	return p
}

func (e env) do(r *http.Request, u testutil.TestUser) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, testutil.WithUser(r, u))
	return rec
}

func TestApprove_CreatesMember(t *testing.T) {
	e := newEnv(t)
	p := e.submit(t, "ritu@test.com", "9876543210", "")

	rec := e.do(testutil.NewJSONRequest("POST", "/"+p.ID+"/approve", map[string]string{"role": models.RoleManager}), testutil.PresidentUser())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var m models.Member
	require.NoError(t, testutil.DecodeJSON(rec, &m))
	assert.Equal(t, models.RoleManager, m.Role)
	assert.Empty(t, m.Password)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	_, err := memberstore.New(e.fx.Store()).Authenticate(ctx, "ritu@test.com", "secret1")
	assert.NoError(t, err, "approved applicant signs in with the registration password")

	again := e.do(testutil.NewJSONRequest("POST", "/"+p.ID+"/approve", nil), testutil.PresidentUser())
	assert.Equal(t, http.StatusConflict, again.Code)
}

func TestApprove_ManagerForbidden(t *testing.T) {
	e := newEnv(t)
	p := e.submit(t, "ritu@test.com", "9876543210", "")

	rec := e.do(testutil.NewJSONRequest("POST", "/"+p.ID+"/approve", nil), testutil.ManagerUser())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApprove_OtherClubForbidden(t *testing.T) {
	e := newEnv(t)
	p := e.submit(t, "ritu@test.com", "9876543210", "club-b")

	rec := e.do(testutil.NewJSONRequest("POST", "/"+p.ID+"/approve", nil), testutil.ClubAdminUser("club-a"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReject(t *testing.T) {
	e := newEnv(t)
	p := e.submit(t, "ritu@test.com", "9876543210", "")

	rec := e.do(testutil.NewJSONRequest("POST", "/"+p.ID+"/reject", map[string]string{"note": "Not from our para"}), testutil.PresidentUser())
	require.Equal(t, http.StatusOK, rec.Code)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, err := e.store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PendingStatusRejected, got.Status)
	assert.Equal(t, "Not from our para", got.RejectionNote)
}

func TestList_FiltersStatusAndClub(t *testing.T) {
	e := newEnv(t)
	e.submit(t, "a@test.com", "9000000001", "club-a")
	e.submit(t, "b@test.com", "9000000002", "club-b")

	rec := e.do(testutil.NewRequest("GET", "/?status=pending"), testutil.ClubAdminUser("club-a"))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.PendingMember
	require.NoError(t, testutil.DecodeJSON(rec, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "a@test.com", list[0].Email)
	assert.Empty(t, list[0].Password)
}

func TestApprove_Missing(t *testing.T) {
	e := newEnv(t)
	rec := e.do(testutil.NewJSONRequest("POST", "/nope/approve", nil), testutil.PresidentUser())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
