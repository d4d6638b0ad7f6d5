// internal/domain/models/collections.go
package models

// Top-level collection names.
const (
	CollMembers        = "members"
	CollPendingMembers = "pendingMembers"
	CollClubs          = "clubs"
	CollPujas          = "pujas"
	CollBudgetItems    = "budgetItems"
	CollExpenses       = "expenses"
	CollSponsors       = "sponsors"
	CollInventory      = "inventory"
	CollTasks          = "tasks"
	CollEvents         = "events"
	CollParticipants   = "participants"
	CollPrizes         = "prizes"
	CollAuditLog       = "auditLog"
)

// Bases of puja-scoped collections. The stored name is "<base>_<pujaId>"
// (see docstore.Scoped).
const (
	BaseContributions     = "Contributions"
	BaseBudgetAllocations = "BudgetAllocations"
	BaseParaCollections   = "ParaCollections"
)

// ScopedBases lists every puja-scoped base, in display order.
var ScopedBases = []string{BaseContributions, BaseBudgetAllocations, BaseParaCollections}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
