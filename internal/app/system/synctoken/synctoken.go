// internal/app/system/synctoken/synctoken.go
package synctoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/pujahub/internal/app/system/auth"
	gojwt "github.com/golang-jwt/jwt/v5"
)

const issuer = "pujahub"

var ErrInvalid = errors.New("synctoken: invalid or expired token")

// Claims carries the session user so a sync client without cookies gets the
// same identity the browser session would.
type Claims struct {
	User auth.SessionUser `json:"user"`
	gojwt.RegisteredClaims
}

// Issuer signs short-lived sync tokens with HS256.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func New(key string, ttl time.Duration) (*Issuer, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("synctoken: key must be at least 32 bytes, got %d", len(key))
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Issuer{key: []byte(key), ttl: ttl, now: time.Now}, nil
}

// TTL reports how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue returns a signed token for u.
func (i *Issuer) Issue(u auth.SessionUser) (string, error) {
	now := i.now()
	c := Claims{
		User: u,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.ID,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, c).SignedString(i.key)
}

// Parse verifies tok and returns its user with the tier recomputed from the
// role, as LoadSessionUser does for cookies.
func (i *Issuer) Parse(tok string) (*auth.SessionUser, error) {
	var c Claims
	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(i.now),
	)
	_, err := parser.ParseWithClaims(tok, &c, func(*gojwt.Token) (any, error) { return i.key, nil })
	if err != nil || c.User.ID == "" {
		return nil, ErrInvalid
	}
	u := c.User
	u.Heal()
	return &u, nil
}
