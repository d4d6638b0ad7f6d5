package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"go.uber.org/zap"
)

// A cookie written before a role-table change carries a stale tier. Loading
// it must correct the tier and send a rewritten cookie.
func TestLoadSessionUser_HealsDriftedTier(t *testing.T) {
	sm, err := NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	stale, _ := json.Marshal(SessionUser{ID: "m1", DomainRole: "Manager", Tier: tierpolicy.SuperAdmin})
	seed := httptest.NewRecorder()
	seedReq := httptest.NewRequest("GET", "/", nil)
	sess, _ := sm.GetSession(seedReq)
	sess.Values[userKey] = string(stale)
	if err := sess.Save(seedReq, seed); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/me", nil)
	for _, c := range seed.Result().Cookies() {
		req.AddCookie(c)
	}

	var got *SessionUser
	rec := httptest.NewRecorder()
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	})).ServeHTTP(rec, req)

	if got == nil || got.Tier != tierpolicy.Admin {
		t.Fatalf("expected healed tier admin, got %+v", got)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected the corrected session cookie to be written")
	}
}

func TestLoadSessionUser_NoRewriteWhenConsistent(t *testing.T) {
	sm, _ := NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, zap.NewNop())

	seed := httptest.NewRecorder()
	_ = sm.Login(seed, httptest.NewRequest("POST", "/login", nil), SessionUser{ID: "m1", DomainRole: "Member"})

	req := httptest.NewRequest("GET", "/me", nil)
	for _, c := range seed.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	sm.LoadSessionUser(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

	if n := len(rec.Result().Cookies()); n != 0 {
		t.Errorf("expected no cookie rewrite, got %d cookies", n)
	}
}
