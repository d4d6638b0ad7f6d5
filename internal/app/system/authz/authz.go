// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
)

// UserCtx returns the user's tier, name, id, and a found flag. With no
// user in context it returns "", "", "", false.
func UserCtx(r *http.Request) (tier tierpolicy.Tier, name string, userID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user.ID == "" {
		return "", "", "", false
	}
	return user.Tier, user.Name, user.ID, true
}

// Can reports whether the current user's tier grants perm.
func Can(r *http.Request, perm string) bool {
	tier, _, _, ok := UserCtx(r)
	return ok && tierpolicy.HasPermission(tier, perm)
}

// Tier returns the current user's tier, or "" when signed out.
func Tier(r *http.Request) tierpolicy.Tier {
	tier, _, _, _ := UserCtx(r)
	return tier
}

// IsSuperAdmin reports whether the current user is super_admin.
func IsSuperAdmin(r *http.Request) bool {
	return Tier(r) == tierpolicy.SuperAdmin
}

// IsPlatformAdmin reports whether the current user is the platform admin.
func IsPlatformAdmin(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	return ok && user.PlatformRole == tierpolicy.PlatformAdmin
}

// UserClubID returns the club the current user belongs to, or "".
func UserClubID(r *http.Request) string {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	return user.ClubID
}

// CanAccessClub reports whether the current user may read or write data of
// clubID. The platform admin can access every club; everyone else only
// their own. Users without a club (single-club deployments) are not
// restricted.
func CanAccessClub(r *http.Request, clubID string) bool {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	if user.PlatformRole == tierpolicy.PlatformAdmin {
		return true
	}
	if user.ClubID == "" || clubID == "" {
		return true
	}
	return user.ClubID == clubID
}
