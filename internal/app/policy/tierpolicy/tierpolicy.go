// Package tierpolicy maps domain roles to access tiers and tiers to named
// permissions.
//
// Rules:
//   - President and Vice President are super_admin
//   - Manager and Vice Manager are admin
//   - Member, any other string and the empty string are user
//
// Matching is exact: no trimming and no case folding.
package tierpolicy

import (
	"sort"

	"github.com/dalemusser/pujahub/internal/domain/models"
)

// Tier is an access level.
type Tier string

const (
	SuperAdmin Tier = "super_admin"
	Admin      Tier = "admin"
	User       Tier = "user"
)

// Platform roles for multi-club mode. They sit beside the tier: a club
// admin is super_admin inside its own club.
const (
	PlatformAdmin = "platform_admin"
	ClubAdmin     = "club_admin"
)

// Permission names.
const (
	CanManageMembers       = "canManageMembers"
	CanApproveMembers      = "canApproveMembers"
	CanManagePujas         = "canManagePujas"
	CanCompletePujas       = "canCompletePujas"
	CanDeletePujas         = "canDeletePujas"
	CanManageBudgetItems   = "canManageBudgetItems"
	CanManageBudget        = "canManageBudget"
	CanManageContributions = "canManageContributions"
	CanManageExpenses      = "canManageExpenses"
	CanManageSponsors      = "canManageSponsors"
	CanManageInventory     = "canManageInventory"
	CanManageTasks         = "canManageTasks"
	CanManageEvents        = "canManageEvents"
	CanViewReports         = "canViewReports"
)

var tierOf = map[string]Tier{
	models.RolePresident:     SuperAdmin,
	models.RoleVicePresident: SuperAdmin,
	models.RoleManager:       Admin,
	models.RoleViceManager:   Admin,
	models.RoleMember:        User,
}

// AccessTierOf is total: unknown or empty roles are User.
func AccessTierOf(domainRole string) Tier {
	if t, ok := tierOf[domainRole]; ok {
		return t
	}
	return User
}

var all = []string{
	CanManageMembers, CanApproveMembers, CanManagePujas, CanCompletePujas,
	CanDeletePujas, CanManageBudgetItems, CanManageBudget, CanManageContributions,
	CanManageExpenses, CanManageSponsors, CanManageInventory, CanManageTasks,
	CanManageEvents, CanViewReports,
}

var table = map[Tier]map[string]bool{
	SuperAdmin: set(all...),
	Admin: set(
		CanManagePujas, CanManageBudgetItems, CanManageBudget, CanManageContributions,
		CanManageExpenses, CanManageSponsors, CanManageInventory, CanManageTasks,
		CanManageEvents, CanViewReports,
	),
	User: set(CanViewReports),
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// HasPermission reports whether tier grants name. Unknown tiers and names
// are false.
func HasPermission(tier Tier, name string) bool {
	return table[tier][name]
}

// Permissions returns every permission with its value for tier, for
// clients that hide actions they cannot take.
func Permissions(tier Tier) map[string]bool {
	out := make(map[string]bool, len(all))
	for _, n := range all {
		out[n] = HasPermission(tier, n)
	}
	return out
}

// Names lists all permission names in sorted order.
func Names() []string {
	out := append([]string(nil), all...)
	sort.Strings(out)
	return out
}

// Valid reports whether t is one of the three tiers.
func Valid(t Tier) bool {
	_, ok := table[t]
	return ok
}

// Rank orders tiers; higher is more privileged. Unknown tiers rank 0.
func Rank(t Tier) int {
	switch t {
	case SuperAdmin:
		return 3
	case Admin:
		return 2
	case User:
		return 1
	}
	return 0
}
