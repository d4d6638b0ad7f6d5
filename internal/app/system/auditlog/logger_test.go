package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/pujahub/internal/app/store/audit"
	"github.com/dalemusser/pujahub/internal/app/system/auditlog"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilIsNoop(t *testing.T) {
	var l *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/login", nil)

	l.Record(ctx, audit.Event{EventType: "test"})
	l.LoginSuccess(ctx, req, auth.SessionUser{ID: "m1"}, "member")
	l.Logout(ctx, req, nil)
}

func TestLogger_Destinations(t *testing.T) {
	tests := []struct {
		setting string
		wantDB  int
		wantLog int
	}{
		{auditlog.All, 1, 1},
		{auditlog.DB, 1, 0},
		{auditlog.Log, 0, 1},
		{auditlog.Off, 0, 0},
		{"", 1, 1},
	}
	for _, tt := range tests {
		t.Run("setting="+tt.setting, func(t *testing.T) {
			store := audit.New(testutil.NewMemStore(t))
			core, logs := observer.New(zap.InfoLevel)
			l := auditlog.New(store, zap.New(core), auditlog.Config{Auth: tt.setting, Admin: auditlog.Off})
			ctx, cancel := testutil.TestContext()
			defer cancel()

			l.LoginFailed(ctx, httptest.NewRequest("POST", "/login", nil), "a@example.com", "member", "wrong password")

			events, err := store.Query(ctx, audit.QueryFilter{})
			require.NoError(t, err)
			assert.Len(t, events, tt.wantDB)
			assert.Equal(t, tt.wantLog, logs.FilterMessage("audit event").Len())
		})
	}
}

func TestLogger_AdminEventCarriesActor(t *testing.T) {
	store := audit.New(testutil.NewMemStore(t))
	l := auditlog.New(store, zap.NewNop(), auditlog.Config{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.WithUser(httptest.NewRequest("DELETE", "/members/m9", nil), testutil.PresidentUser())
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	l.MemberDeleted(ctx, req, "m9")

	events, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAdmin})
	require.NoError(t, err)
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, audit.EventMemberDeleted, e.EventType)
	assert.Equal(t, "m9", e.UserID)
	assert.Equal(t, testutil.PresidentUser().ID, e.ActorID)
	assert.Equal(t, "super_admin", e.ActorRole)
	assert.Equal(t, "203.0.113.7", e.IP)
}
