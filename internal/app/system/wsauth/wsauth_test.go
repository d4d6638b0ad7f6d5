package wsauth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/app/system/synctoken"
	"github.com/dalemusser/pujahub/internal/app/system/wsauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func whoami(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := auth.CurrentUser(r); ok {
			*got = u.ID
		}
	})
}

func newIssuer(t *testing.T) *synctoken.Issuer {
	t.Helper()
	iss, err := synctoken.New("sync-token-key-that-is-32-bytes!!", time.Minute)
	require.NoError(t, err)
	return iss
}

func TestAuthenticate_Token(t *testing.T) {
	iss := newIssuer(t)
	tok, err := iss.Issue(auth.SessionUser{ID: "m1", DomainRole: "Member"})
	require.NoError(t, err)

	var got string
	rec := httptest.NewRecorder()
	wsauth.Authenticate(iss, zap.NewNop())(whoami(&got)).ServeHTTP(rec, httptest.NewRequest("GET", "/ws?token="+tok, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "m1", got)
}

func TestAuthenticate_SessionWins(t *testing.T) {
	var got string
	req := auth.WithTestUser(httptest.NewRequest("GET", "/ws?token=garbage", nil), &auth.SessionUser{ID: "cookie-user"})
	wsauth.Authenticate(newIssuer(t), zap.NewNop())(whoami(&got)).ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "cookie-user", got)
}

func TestAuthenticate_BadToken(t *testing.T) {
	var got string
	rec := httptest.NewRecorder()
	wsauth.Authenticate(newIssuer(t), zap.NewNop())(whoami(&got)).ServeHTTP(rec, httptest.NewRequest("GET", "/ws?token=garbage", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, got)
}

func TestAuthenticate_NoTokenFallsThrough(t *testing.T) {
	var got string
	rec := httptest.NewRecorder()
	wsauth.Authenticate(newIssuer(t), zap.NewNop())(whoami(&got)).ServeHTTP(rec, httptest.NewRequest("GET", "/ws", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, got)
}
