// internal/app/system/wsauth/wsauth.go

// Package wsauth authenticates websocket handshakes. Browsers carry the
// session cookie; other clients pass a sync token in the query string
// because the websocket API cannot set headers.
package wsauth

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/app/system/synctoken"
	"go.uber.org/zap"
)

// TokenParam is the query parameter carrying a sync token.
const TokenParam = "token"

// Authenticate keeps a session user already in context. Otherwise a
// ?token= value is verified and its user injected. A token that fails to
// verify is rejected with 401; no token at all falls through so
// RequireSignedIn can answer.
func Authenticate(tokens *synctoken.Issuer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.CurrentUser(r); ok {
				next.ServeHTTP(w, r)
				return
			}
			tok := r.URL.Query().Get(TokenParam)
			if tok == "" || tokens == nil {
				next.ServeHTTP(w, r)
				return
			}
			u, err := tokens.Parse(tok)
			if err != nil {
				logger.Info("sync token rejected",
					zap.String("remote", r.RemoteAddr),
					zap.Error(err))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid sync token"})
				return
			}
			next.ServeHTTP(w, auth.WithUser(r, u))
		})
	}
}
