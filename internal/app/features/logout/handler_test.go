package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/pujahub/internal/app/features/logout"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"go.uber.org/zap"
)

func TestServeLogout(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	seed := httptest.NewRecorder()
	if err := sm.Login(seed, httptest.NewRequest("POST", "/login", nil), auth.SessionUser{ID: "m1", DomainRole: models.RoleMember}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/", nil)
	for _, c := range seed.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router := logout.Routes(logout.NewHandler(sm, zap.NewNop()), sm)
	sm.LoadSessionUser(router).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expiring cookie, got %+v", cookies)
	}
}

func TestServeLogout_SignedOut(t *testing.T) {
	sm, _ := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, zap.NewNop())
	rec := httptest.NewRecorder()
	logout.Routes(logout.NewHandler(sm, zap.NewNop()), sm).ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
