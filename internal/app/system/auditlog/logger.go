// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/pujahub/internal/app/store/audit"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	All = "all" // store + zap
	DB  = "db"  // store only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls login, logout and club selection events.
	Auth string
	// Admin controls member, registration, club, puja and budget changes.
	Admin string
}

// Logger writes audit events to the audit store and to zap. A nil *Logger
// is a no-op so handlers built without one still work.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(e audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", e.Category),
		zap.String("event_type", e.EventType),
		zap.Bool("success", e.Success),
		zap.String("ip", e.IP),
	}
	if e.UserID != "" {
		fields = append(fields, zap.String("user_id", e.UserID))
	}
	if e.ActorID != "" {
		fields = append(fields, zap.String("actor_id", e.ActorID))
	}
	if e.ClubID != "" {
		fields = append(fields, zap.String("club_id", e.ClubID))
	}
	if e.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", e.FailureReason))
	}
	for k, v := range e.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	if e.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Record writes e to the destinations configured for its category.
func (l *Logger) Record(ctx context.Context, e audit.Event) {
	if l == nil {
		return
	}
	setting := All
	switch e.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}
	if setting == All || setting == Log {
		l.logToZap(e)
	}
	if setting == All || setting == DB {
		if err := l.store.Log(ctx, e); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", e.EventType))
		}
	}
}

func from(r *http.Request, category, eventType string) audit.Event {
	return audit.Event{Category: category, EventType: eventType, IP: clientIP(r), UserAgent: r.UserAgent()}
}

// admin fills the actor from the session user.
func admin(r *http.Request, eventType, targetID string) audit.Event {
	e := from(r, audit.CategoryAdmin, eventType)
	e.UserID = targetID
	e.Success = true
	if u, ok := auth.CurrentUser(r); ok {
		e.ActorID = u.ID
		e.ActorRole = string(u.Tier)
		e.ClubID = u.ClubID
	}
	return e
}

// --- Authentication Events ---

// LoginSuccess records a sign-in. kind is "member" or "club".
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, u auth.SessionUser, kind string) {
	e := from(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.UserID, e.ClubID, e.Success = u.ID, u.ClubID, true
	e.Details = map[string]string{"kind": kind, "email": u.Email}
	l.Record(ctx, e)
}

// LoginFailed records a rejected sign-in attempt for email.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, kind, reason string) {
	e := from(r, audit.CategoryAuth, audit.EventLoginFailed)
	e.FailureReason = reason
	e.Details = map[string]string{"kind": kind, "email": email}
	l.Record(ctx, e)
}

// LoginRateLimited records an attempt refused by the login limiter.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, email string) {
	e := from(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit)
	e.FailureReason = "rate limited"
	e.Details = map[string]string{"email": email}
	l.Record(ctx, e)
}

func (l *Logger) Logout(ctx context.Context, r *http.Request, u *auth.SessionUser) {
	e := from(r, audit.CategoryAuth, audit.EventLogout)
	e.Success = true
	if u != nil {
		e.UserID, e.ClubID = u.ID, u.ClubID
	}
	l.Record(ctx, e)
}

// ClubSelected records the platform admin switching club.
func (l *Logger) ClubSelected(ctx context.Context, r *http.Request, clubID string) {
	e := admin(r, audit.EventClubSelected, "")
	e.Category = audit.CategoryAuth
	e.ClubID = clubID
	l.Record(ctx, e)
}

// --- Admin Events ---

func (l *Logger) MemberCreated(ctx context.Context, r *http.Request, memberID, role string) {
	e := admin(r, audit.EventMemberCreated, memberID)
	e.Details = map[string]string{"role": role}
	l.Record(ctx, e)
}

func (l *Logger) MemberUpdated(ctx context.Context, r *http.Request, memberID, role string) {
	e := admin(r, audit.EventMemberUpdated, memberID)
	e.Details = map[string]string{"role": role}
	l.Record(ctx, e)
}

func (l *Logger) MemberDeleted(ctx context.Context, r *http.Request, memberID string) {
	l.Record(ctx, admin(r, audit.EventMemberDeleted, memberID))
}

// RegistrationApproved records an applicant becoming memberID.
func (l *Logger) RegistrationApproved(ctx context.Context, r *http.Request, registrationID, memberID, role string) {
	e := admin(r, audit.EventRegistrationApproved, memberID)
	e.Details = map[string]string{"registration_id": registrationID, "role": role}
	l.Record(ctx, e)
}

func (l *Logger) RegistrationRejected(ctx context.Context, r *http.Request, registrationID string) {
	e := admin(r, audit.EventRegistrationRejected, "")
	e.Details = map[string]string{"registration_id": registrationID}
	l.Record(ctx, e)
}

func (l *Logger) ClubCreated(ctx context.Context, r *http.Request, clubID, name string) {
	e := admin(r, audit.EventClubCreated, "")
	e.ClubID = clubID
	e.Details = map[string]string{"name": name}
	l.Record(ctx, e)
}

func (l *Logger) ClubDeleted(ctx context.Context, r *http.Request, clubID string) {
	e := admin(r, audit.EventClubDeleted, "")
	e.ClubID = clubID
	l.Record(ctx, e)
}

func (l *Logger) PujaStatusChanged(ctx context.Context, r *http.Request, pujaID, from, to string) {
	e := admin(r, audit.EventPujaStatusChanged, "")
	e.Details = map[string]string{"puja_id": pujaID, "from": from, "to": to}
	l.Record(ctx, e)
}

func (l *Logger) PujaDeleted(ctx context.Context, r *http.Request, pujaID string) {
	e := admin(r, audit.EventPujaDeleted, "")
	e.Details = map[string]string{"puja_id": pujaID}
	l.Record(ctx, e)
}

// BudgetSaved records the writes a budget save made.
func (l *Logger) BudgetSaved(ctx context.Context, r *http.Request, pujaID string, created, updated, deleted int) {
	e := admin(r, audit.EventBudgetSaved, "")
	e.Details = map[string]string{
		"puja_id": pujaID,
		"created": strconv.Itoa(created),
		"updated": strconv.Itoa(updated),
		"deleted": strconv.Itoa(deleted),
	}
	l.Record(ctx, e)
}
