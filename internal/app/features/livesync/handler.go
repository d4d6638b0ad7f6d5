// internal/app/features/livesync/handler.go

// Package livesync streams collection snapshots to connected clients over a
// websocket. Each connection owns a clientstore mirror bound to the
// document store; every change is pushed as a snapshot message, followed by
// a summary of the selected puja.
package livesync

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/pujahub/internal/app/clientstore"
	"github.com/dalemusser/pujahub/internal/app/docstore"
	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	pujastore "github.com/dalemusser/pujahub/internal/app/store/pujas"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/app/system/authz"
	"github.com/dalemusser/pujahub/internal/app/system/synctoken"
	"github.com/dalemusser/pujahub/internal/app/system/timeouts"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Settings tunes the websocket keepalive.
type Settings struct {
	WriteTimeout time.Duration
	PongTimeout  time.Duration
	PingInterval time.Duration
	// MaxMessage caps what a client may send; clients only send pongs.
	MaxMessage int64
}

func DefaultSettings() Settings {
	return Settings{
		WriteTimeout: 10 * time.Second,
		PongTimeout:  60 * time.Second,
		PingInterval: 50 * time.Second,
		MaxMessage:   4096,
	}
}

type Handler struct {
	Store    docstore.Store
	Pujas    *pujastore.Store
	Tokens   *synctoken.Issuer
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
	Settings Settings

	upgrader websocket.Upgrader
}

func NewHandler(ds docstore.Store, pujas *pujastore.Store, tokens *synctoken.Issuer, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    ds,
		Pujas:    pujas,
		Tokens:   tokens,
		ErrLog:   errLog,
		Log:      logger,
		Settings: DefaultSettings(),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 16 * 1024},
	}
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// HandleToken issues a sync token for the signed-in user.
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	tok, err := h.Tokens.Issue(*u)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue sync token", err, "Failed to issue sync token")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, tokenResponse{Token: tok, ExpiresIn: int(h.Tokens.TTL().Seconds())})
}

// resolve picks the collections for a connection. An empty list means
// everything the puja view mirrors; any name outside that set is refused.
func resolve(raw, pujaID string) ([]string, string) {
	allowed := clientstore.CollectionsFor(pujaID)
	if strings.TrimSpace(raw) == "" {
		return allowed, ""
	}
	ok := make(map[string]bool, len(allowed))
	for _, n := range allowed {
		ok[n] = true
	}
	var names []string
	seen := map[string]bool{}
	for _, n := range strings.Split(raw, ",") {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		if !ok[n] {
			return nil, n
		}
		seen[n] = true
		names = append(names, n)
	}
	return names, ""
}

// ServeWS upgrades the request and streams snapshots until the client goes
// away or a subscription fails.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pujaID := strings.TrimSpace(q.Get("puja"))
	if pujaID != "" {
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load puja")
		p, err := h.Pujas.GetByID(ctx, pujaID)
		cancel()
		if err != nil {
			h.ErrLog.Respond(w, r, "load puja", err)
			return
		}
		if !authz.CanAccessClub(r, p.ClubID) {
			uierrors.WriteError(w, http.StatusForbidden, "forbidden")
			return
		}
	}
	names, bad := resolve(q.Get("collections"), pujaID)
	if bad != "" {
		uierrors.WriteError(w, http.StatusBadRequest, "unknown collection: "+bad)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.Log.Info("websocket upgrade failed", zap.Error(err))
		return
	}

	u, _ := auth.CurrentUser(r)
	c := &conn{
		id:       uuid.NewString(),
		ws:       ws,
		names:    names,
		pujaID:   pujaID,
		clubID:   authz.UserClubID(r),
		settings: h.Settings,
	}
	c.log = h.Log.With(zap.String("conn_id", c.id), zap.String("user_id", u.ID))
	c.log.Info("sync connection opened",
		zap.String("puja_id", pujaID),
		zap.Strings("collections", names))
	c.run(r.Context(), h.Store)
	c.log.Info("sync connection closed")
}
