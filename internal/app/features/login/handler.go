// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	clubstore "github.com/dalemusser/pujahub/internal/app/store/clubs"
	memberstore "github.com/dalemusser/pujahub/internal/app/store/members"
	"github.com/dalemusser/pujahub/internal/app/system/auditlog"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/normalize"
	"github.com/dalemusser/pujahub/internal/app/system/ratelimit"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Members    *memberstore.Store
	Clubs      *clubstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
	Audit      *auditlog.Logger

	// PlatformAdminEmail is the member email granted the platform_admin
	// role on sign-in. Empty disables multi-club administration.
	PlatformAdminEmail string
}

func NewHandler(members *memberstore.Store, clubs *clubstore.Store, sessionMgr *auth.SessionManager,
	limiter *ratelimit.LoginLimiter, platformAdminEmail string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Members:            members,
		Clubs:              clubs,
		SessionMgr:         sessionMgr,
		Limiter:            limiter,
		ErrLog:             errLog,
		Log:                logger,
		PlatformAdminEmail: normalize.Email(platformAdminEmail),
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// read decodes credentials and spends a rate-limit attempt. It writes the
// response itself and returns false when the request cannot proceed.
func (h *Handler) read(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := uierrors.DecodeJSON(w, r, &c); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: bad body", err, "Invalid request body.")
		return c, false
	}
	c.Email = normalize.Email(c.Email)
	if c.Email == "" || c.Password == "" {
		uierrors.WriteError(w, http.StatusBadRequest, "Email and password are required.")
		return c, false
	}
	if ok, reason := h.Limiter.Check(r, c.Email); !ok {
		h.Log.Warn("login rate limited",
			zap.String("email", c.Email),
			zap.String("ip", ratelimit.ClientIP(r)))
		h.Audit.LoginRateLimited(r.Context(), r, c.Email)
		uierrors.WriteError(w, http.StatusTooManyRequests, reason)
		return c, false
	}
	return c, true
}

// HandleMemberLogin handles POST /login.
func (h *Handler) HandleMemberLogin(w http.ResponseWriter, r *http.Request) {
	c, ok := h.read(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "member login")
	defer cancel()

	m, err := h.Members.Authenticate(ctx, c.Email, c.Password)
	if err != nil {
		if errors.Is(err, memberstore.ErrInvalidCredentials) {
			h.Log.Info("member login failed", zap.String("email", c.Email))
			h.Audit.LoginFailed(r.Context(), r, c.Email, "member", "invalid credentials")
		}
		h.ErrLog.Respond(w, r, "sign in", err)
		return
	}

	u := auth.SessionUser{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		DomainRole: m.Role,
		ClubID:     m.ClubID,
	}
	if h.PlatformAdminEmail != "" && m.Email == h.PlatformAdminEmail {
		u.PlatformRole = tierpolicy.PlatformAdmin
	}
	h.finish(w, r, c.Email, "member", u)
}

// HandleClubLogin handles POST /login/club. A club login is club_admin
// inside that club.
func (h *Handler) HandleClubLogin(w http.ResponseWriter, r *http.Request) {
	c, ok := h.read(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "club login")
	defer cancel()

	club, err := h.Clubs.Authenticate(ctx, c.Email, c.Password)
	if err != nil {
		if errors.Is(err, clubstore.ErrInvalidCredentials) {
			h.Audit.LoginFailed(r.Context(), r, c.Email, "club", "invalid credentials")
		}
		h.ErrLog.Respond(w, r, "sign in", err)
		return
	}
	h.finish(w, r, c.Email, "club", auth.SessionUser{
		ID:           club.ID,
		Name:         club.Name,
		Email:        club.Email,
		ClubID:       club.ID,
		PlatformRole: tierpolicy.ClubAdmin,
	})
}

func (h *Handler) finish(w http.ResponseWriter, r *http.Request, email, kind string, u auth.SessionUser) {
	if err := h.SessionMgr.Login(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "login: save session", err, "Failed to sign in")
		return
	}
	h.Limiter.ResetEmail(email)
	u.Heal()
	h.Log.Info("signed in",
		zap.String("user_id", u.ID),
		zap.String("tier", string(u.Tier)),
		zap.String("platform_role", u.PlatformRole))
	h.Audit.LoginSuccess(r.Context(), r, u, kind)
	uierrors.WriteJSON(w, http.StatusOK, u)
}

type selectClubRequest struct {
	ClubID string `json:"clubId"`
}

// HandleSelectClub handles POST /login/select-club: the platform admin
// switches the club their session works in.
func (h *Handler) HandleSelectClub(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if !authz.IsPlatformAdmin(r) {
		uierrors.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	var req selectClubRequest
	if err := uierrors.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "select club: bad body", err, "Invalid request body.")
		return
	}
	if req.ClubID != "" {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "select club")
		defer cancel()
		if _, err := h.Clubs.GetByID(ctx, req.ClubID); err != nil {
			h.ErrLog.Respond(w, r, "select club", err)
			return
		}
	}
	next := *u
	next.ClubID = req.ClubID
	if err := h.SessionMgr.Login(w, r, next); err != nil {
		h.ErrLog.LogServerError(w, r, "select club: save session", err, "Failed to select club")
		return
	}
	next.Heal()
	h.Audit.ClubSelected(r.Context(), r, req.ClubID)
	uierrors.WriteJSON(w, http.StatusOK, next)
}
