// internal/app/store/budget/budgetstore.go
package budgetstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/pujahub/internal/app/clientstore"
	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"go.uber.org/zap"
)

type Store struct {
	ds  docstore.Store
	log *zap.Logger
}

func New(ds docstore.Store, logger *zap.Logger) *Store {
	return &Store{ds: ds, log: logger}
}

// Result counts the writes Apply made.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

func allocations(pujaID string) string {
	return docstore.Scoped(models.BaseBudgetAllocations, pujaID)
}

// Apply executes a save plan against puja pujaID in order and stops at the
// first failure, returning what was written so far. Creates look up an
// existing allocation for the item first and update it instead, so a plan
// computed from a stale snapshot does not add a second row. Two concurrent
// savers can still both insert.
func (s *Store) Apply(ctx context.Context, pujaID string, ops []clientstore.AllocationOp) (Result, error) {
	var res Result
	name := allocations(pujaID)
	for _, op := range ops {
		switch op.Kind {
		case clientstore.OpCreate, clientstore.OpUpdate:
			created, err := s.upsert(ctx, pujaID, op)
			if err != nil {
				return res, fmt.Errorf("save allocation for %q: %w", op.BudgetItemName, err)
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		case clientstore.OpDelete:
			err := s.ds.Delete(ctx, name, op.AllocationID)
			if errors.Is(err, docstore.ErrNotFound) {
				s.log.Debug("allocation already gone",
					zap.String("puja_id", pujaID), zap.String("allocation_id", op.AllocationID))
				continue
			}
			if err != nil {
				return res, fmt.Errorf("delete allocation for %q: %w", op.BudgetItemName, err)
			}
			res.Deleted++
		default:
			return res, fmt.Errorf("unknown allocation op %q", op.Kind)
		}
	}
	return res, nil
}

func (s *Store) upsert(ctx context.Context, pujaID string, op clientstore.AllocationOp) (bool, error) {
	name := allocations(pujaID)
	id := op.AllocationID
	if id == "" {
		existing, err := s.ds.Find(ctx, name, "budgetItemId", op.BudgetItemID)
		if err != nil {
			return false, err
		}
		if len(existing) > 1 {
			s.log.Warn("duplicate budget allocations",
				zap.String("puja_id", pujaID),
				zap.String("budget_item_id", op.BudgetItemID),
				zap.Int("count", len(existing)))
		}
		if len(existing) > 0 {
			id = existing[0].ID()
		}
	}
	if id != "" {
		return false, s.ds.Update(ctx, name, id, docstore.Fields{"allocatedAmount": op.Amount})
	}

	fields, err := docstore.Encode(models.BudgetAllocation{
		BudgetItemID:       op.BudgetItemID,
		BudgetItemName:     op.BudgetItemName,
		BudgetItemCategory: op.BudgetItemCategory,
		AllocatedAmount:    op.Amount,
		PujaID:             pujaID,
	})
	if err != nil {
		return false, err
	}
	_, err = s.ds.Add(ctx, name, fields)
	return err == nil, err
}

// Allocate sets item's allocation for pujaID to amount, creating it when
// missing. An amount of 0 deletes an existing allocation.
func (s *Store) Allocate(ctx context.Context, pujaID string, item models.BudgetItem, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("allocation for %q must not be negative", item.Name)
	}
	op := clientstore.AllocationOp{
		Kind:               clientstore.OpCreate,
		BudgetItemID:       item.ID,
		BudgetItemName:     item.Name,
		BudgetItemCategory: item.Category,
		Amount:             amount,
	}
	if amount == 0 {
		existing, err := s.ds.Find(ctx, allocations(pujaID), "budgetItemId", item.ID)
		if err != nil || len(existing) == 0 {
			return err
		}
		op.Kind = clientstore.OpDelete
		op.AllocationID = existing[0].ID()
	}
	_, err := s.Apply(ctx, pujaID, []clientstore.AllocationOp{op})
	return err
}

// Allocations returns the allocations for pujaID, newest first.
func (s *Store) Allocations(ctx context.Context, pujaID string) ([]models.BudgetAllocation, error) {
	recs, err := s.ds.List(ctx, allocations(pujaID))
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.BudgetAllocation](recs), nil
}
