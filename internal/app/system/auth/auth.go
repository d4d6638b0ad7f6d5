package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultSessionName = "pujahub-session"

	// userKey holds the whole SessionUser as one JSON blob.
	userKey = "user"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we cache in the session & inject into r.Context().
// DomainRole is the source of truth; Tier is a cache of
// tierpolicy.AccessTierOf(DomainRole) that LoadSessionUser keeps honest.
type SessionUser struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email,omitempty"`
	DomainRole   string          `json:"role"`
	Tier         tierpolicy.Tier `json:"tier"`
	ClubID       string          `json:"clubId,omitempty"`
	PlatformRole string          `json:"platformRole,omitempty"`
}

// ExpectedTier is the tier the session should carry. Platform and club
// admins are super_admin; everyone else gets the tier of their domain role.
func (u SessionUser) ExpectedTier() tierpolicy.Tier {
	switch u.PlatformRole {
	case tierpolicy.PlatformAdmin, tierpolicy.ClubAdmin:
		return tierpolicy.SuperAdmin
	}
	return tierpolicy.AccessTierOf(u.DomainRole)
}

// Heal recomputes Tier and reports whether it changed.
func (u *SessionUser) Heal() bool {
	want := u.ExpectedTier()
	if u.Tier == want {
		return false
	}
	u.Tier = want
	return true
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	return FromContext(r.Context())
}

// FromContext is CurrentUser for code that only has a context.
func FromContext(ctx context.Context) (*SessionUser, bool) {
	u, ok := ctx.Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithUser injects u the way LoadSessionUser does, for middleware that
// authenticates by something other than the cookie.
func WithUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// WithTestUser injects u the way LoadSessionUser does. Tests use it to skip
// the cookie round trip.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store and the auth middleware.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie store keyed by sessionKey.
//
// In production (secure=true), cookies are Secure + SameSite=None.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// GetSession returns the named session. On a decode error a fresh session
// is returned together with the error, as gorilla/sessions does.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// Login writes u into the session cookie. The tier is recomputed first so
// a caller cannot persist a tier the role does not grant.
func (sm *SessionManager) Login(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			sm.log.Warn("session cookie invalid, using fresh session",
				zap.Error(err), zap.String("user_id", u.ID))
		} else {
			sm.log.Error("session store error during login, using fresh session",
				zap.Error(err), zap.String("user_id", u.ID))
		}
	}
	u.Heal()
	blob, err := json.Marshal(u)
	if err != nil {
		return err
	}
	sess.Values[userKey] = string(blob)
	return sess.Save(r, w)
}

// Logout expires the session cookie.
func (sm *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.GetSession(r)
	delete(sess.Values, userKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSessionUser injects the session user into the request context. A
// cached tier that no longer matches the role table is corrected and the
// cookie rewritten.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
				sm.log.Debug("ignoring undecodable session cookie", zap.Error(err))
			} else {
				sm.log.Warn("session load failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		raw, _ := sess.Values[userKey].(string)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		var u SessionUser
		if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
			sm.log.Warn("discarding malformed session blob", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if old := u.Tier; u.Heal() {
			sm.log.Info("session tier corrected",
				zap.String("user_id", u.ID),
				zap.String("role", u.DomainRole),
				zap.String("from", string(old)),
				zap.String("to", string(u.Tier)))
			if blob, err := json.Marshal(u); err == nil {
				sess.Values[userKey] = string(blob)
				if err := sess.Save(r, w); err != nil {
					sm.log.Warn("session rewrite failed", zap.Error(err))
				}
			}
		}
		next.ServeHTTP(w, withUser(r, &u))
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 with a JSON error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		unauthorized(w, r)
	})
}

// RequireTier allows users whose tier is one of allowed.
func (sm *SessionManager) RequireTier(allowed ...tierpolicy.Tier) func(http.Handler) http.Handler {
	set := make(map[tierpolicy.Tier]struct{}, len(allowed))
	for _, t := range allowed {
		set[t] = struct{}{}
	}
	return sm.require(func(u *SessionUser) bool {
		_, ok := set[u.Tier]
		return ok
	})
}

// RequirePermission allows users whose tier grants perm.
func (sm *SessionManager) RequirePermission(perm string) func(http.Handler) http.Handler {
	return sm.require(func(u *SessionUser) bool {
		return tierpolicy.HasPermission(u.Tier, perm)
	})
}

// RequirePlatformAdmin allows only the configured platform admin.
func (sm *SessionManager) RequirePlatformAdmin() func(http.Handler) http.Handler {
	return sm.require(func(u *SessionUser) bool {
		return u.PlatformRole == tierpolicy.PlatformAdmin
	})
}

func (sm *SessionManager) require(allow func(*SessionUser) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)

			// 1) Not signed in → 401 semantics
			if !ok {
				unauthorized(w, r)
				return
			}

			// 2) Signed in but not allowed → 403 semantics
			if !allow(u) {
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// helpers

func unauthorized(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) {
		ret := url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
