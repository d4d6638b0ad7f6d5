// internal/app/store/records/kinds.go
package recordstore

import (
	"reflect"
	"sort"
	"strings"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/dalemusser/pujahub/internal/app/system/inputval"
	"github.com/dalemusser/pujahub/internal/domain/models"
)

// Kind describes one collection served by the generic record routes.
type Kind struct {
	// Name is the URL segment, e.g. "budget-items".
	Name string
	// Collection is the stored name, or the base name when Scoped.
	Collection string
	Scoped     bool
	// ClubOwned records carry clubId; lists filter on it.
	ClubOwned bool
	// Permission gates writes. Reads need only a signed-in user.
	Permission string
	// Action names the record in "Failed to <verb> <Action>" messages.
	Action string
	Plain  []string
	Rich   []string

	fields map[string]bool
	check  func(docstore.Record) (docstore.Fields, error)
}

// CollectionFor resolves the stored collection name.
func (k Kind) CollectionFor(pujaID string) string {
	if k.Scoped {
		return docstore.Scoped(k.Collection, pujaID)
	}
	return k.Collection
}

// typed binds a Kind to model T: records are decoded into T, validated with
// its tags and encoded back, which also drops unknown keys.
func typed[T any](k Kind) Kind {
	k.check = func(rec docstore.Record) (docstore.Fields, error) {
		var v T
		if err := docstore.Decode(rec, &v); err != nil {
			return nil, inputval.Fail("", "Some fields have the wrong type.")
		}
		if err := inputval.Check(v); err != nil {
			return nil, err
		}
		return docstore.Encode(v)
	}
	k.fields = jsonFields(reflect.TypeOf((*T)(nil)).Elem())
	return k
}

func jsonFields(t reflect.Type) map[string]bool {
	out := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		switch name {
		case "", "-", docstore.FieldID, docstore.FieldCreatedAt, docstore.FieldUpdatedAt:
			continue
		}
		out[name] = true
	}
	return out
}

var kinds = map[string]Kind{}

func register(k Kind) {
	kinds[k.Name] = k
}

func init() {
	register(typed[models.BudgetItem](Kind{
		Name: "budget-items", Collection: models.CollBudgetItems,
		Permission: tierpolicy.CanManageBudgetItems, Action: "budget item",
		Plain: []string{"name", "description", "category", "notes"},
	}))
	register(typed[models.Expense](Kind{
		Name: "expenses", Collection: models.CollExpenses, ClubOwned: true,
		Permission: tierpolicy.CanManageExpenses, Action: "expense",
		Plain: []string{"description", "category", "notes"},
	}))
	register(typed[models.Sponsor](Kind{
		Name: "sponsors", Collection: models.CollSponsors,
		Permission: tierpolicy.CanManageSponsors, Action: "sponsor",
		Plain: []string{"name", "contact", "address", "notes"},
	}))
	register(typed[models.InventoryItem](Kind{
		Name: "inventory", Collection: models.CollInventory,
		Permission: tierpolicy.CanManageInventory, Action: "inventory item",
		Plain: []string{"name", "category", "unit", "notes"},
	}))
	register(typed[models.Task](Kind{
		Name: "tasks", Collection: models.CollTasks, ClubOwned: true,
		Permission: tierpolicy.CanManageTasks, Action: "task",
		Plain: []string{"title", "description", "assignedTo"},
	}))
	register(typed[models.Event](Kind{
		Name: "events", Collection: models.CollEvents, ClubOwned: true,
		Permission: tierpolicy.CanManageEvents, Action: "event",
		Plain: []string{"name", "category", "location"},
		Rich:  []string{"description"},
	}))
	register(typed[models.Participant](Kind{
		Name: "participants", Collection: models.CollParticipants, ClubOwned: true,
		Permission: tierpolicy.CanManageEvents, Action: "participant",
		Plain: []string{"name", "contact", "notes"},
	}))
	register(typed[models.Prize](Kind{
		Name: "prizes", Collection: models.CollPrizes,
		Permission: tierpolicy.CanManageEvents, Action: "prize",
		Plain: []string{"position", "description"},
	}))
	register(typed[models.Contribution](Kind{
		Name: "contributions", Collection: models.BaseContributions, Scoped: true,
		Permission: tierpolicy.CanManageContributions, Action: "contribution",
		Plain: []string{"notes"},
	}))
	register(typed[models.ParaCollection](Kind{
		Name: "collections", Collection: models.BaseParaCollections, Scoped: true,
		Permission: tierpolicy.CanManageContributions, Action: "collection",
		Plain: []string{"collectedBy", "notes"},
	}))
}

// Lookup returns the kind served under name.
func Lookup(name string) (Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

// Names lists the registered kinds, split by whether they are puja-scoped.
func Names() (top, scoped []string) {
	for n, k := range kinds {
		if k.Scoped {
			scoped = append(scoped, n)
		} else {
			top = append(top, n)
		}
	}
	sort.Strings(top)
	sort.Strings(scoped)
	return top, scoped
}
