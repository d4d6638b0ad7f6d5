// internal/app/system/authz/roles.go
package authz

import (
	"net/http"

	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
)

// HasAnyTier reports whether the current request's user has any of the
// given tiers. Returns false if no user is present (i.e., not signed in).
func HasAnyTier(r *http.Request, tiers ...tierpolicy.Tier) bool {
	cur, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range tiers {
		if cur == want {
			return true
		}
	}
	return false
}

// AtLeast reports whether the current user's tier ranks at or above min.
func AtLeast(r *http.Request, min tierpolicy.Tier) bool {
	cur, _, _, ok := UserCtx(r)
	return ok && tierpolicy.Rank(cur) >= tierpolicy.Rank(min)
}

// Permissions returns the full permission map for the current user; every
// entry is false when signed out.
func Permissions(r *http.Request) map[string]bool {
	return tierpolicy.Permissions(Tier(r))
}
