// internal/app/store/pujas/pujastore.go
package pujastore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/policy/pujapolicy"
	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/dalemusser/pujahub/internal/app/system/inputval"
	"github.com/dalemusser/pujahub/internal/app/system/normalize"
	"github.com/dalemusser/pujahub/internal/domain/models"
)

type Store struct {
	ds docstore.Store
}

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Input is the writable part of a puja other than its status.
type Input struct {
	Name      string `json:"name" validate:"required,max=100" label:"Name"`
	Year      int    `json:"year" validate:"required,gte=2000,lte=2100" label:"Year"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	ManagerID string `json:"managerId"`
	ClubID    string `json:"clubId"`
}

func (in *Input) check() error {
	in.Name = normalize.Name(in.Name)
	if err := inputval.Check(in); err != nil {
		return err
	}
	start, okStart := parseDate(in.StartDate)
	end, okEnd := parseDate(in.EndDate)
	if in.StartDate != "" && !okStart {
		return inputval.Fail("startDate", "Start date must be YYYY-MM-DD.")
	}
	if in.EndDate != "" && !okEnd {
		return inputval.Fail("endDate", "End date must be YYYY-MM-DD.")
	}
	if okStart && okEnd && end.Before(start) {
		return inputval.Fail("endDate", "End date must not be before the start date.")
	}
	return nil
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}

// Create stores a new puja in the pending state.
func (s *Store) Create(ctx context.Context, in Input) (models.Puja, error) {
	if err := in.check(); err != nil {
		return models.Puja{}, err
	}
	fields, err := docstore.Encode(models.Puja{
		Name:      in.Name,
		Year:      in.Year,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		ManagerID: in.ManagerID,
		ClubID:    in.ClubID,
		Status:    models.PujaPending,
	})
	if err != nil {
		return models.Puja{}, err
	}
	id, err := s.ds.Add(ctx, models.CollPujas, fields)
	if err != nil {
		return models.Puja{}, fmt.Errorf("add puja: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Puja, error) {
	rec, err := docstore.Get(ctx, s.ds, models.CollPujas, id)
	if err != nil {
		return models.Puja{}, err
	}
	var p models.Puja
	err = docstore.Decode(rec, &p)
	return p, err
}

// List returns pujas newest first, restricted to clubID when non-empty.
func (s *Store) List(ctx context.Context, clubID string) ([]models.Puja, error) {
	var (
		recs []docstore.Record
		err  error
	)
	if clubID == "" {
		recs, err = s.ds.List(ctx, models.CollPujas)
	} else {
		recs, err = s.ds.Find(ctx, models.CollPujas, "clubId", clubID)
	}
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.Puja](recs), nil
}

// Update rewrites everything but the status.
func (s *Store) Update(ctx context.Context, id string, in Input) (models.Puja, error) {
	if err := in.check(); err != nil {
		return models.Puja{}, err
	}
	err := s.ds.Update(ctx, models.CollPujas, id, docstore.Fields{
		"name":      in.Name,
		"year":      in.Year,
		"startDate": in.StartDate,
		"endDate":   in.EndDate,
		"managerId": in.ManagerID,
		"clubId":    in.ClubID,
	})
	if err != nil {
		return models.Puja{}, err
	}
	return s.GetByID(ctx, id)
}

// SetStatus moves puja id to status to when tier allows it.
func (s *Store) SetStatus(ctx context.Context, tier tierpolicy.Tier, id, to string) (models.Puja, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Puja{}, err
	}
	if err := pujapolicy.CheckTransition(tier, p.Status, to); err != nil {
		return models.Puja{}, err
	}
	if p.Status == to {
		return p, nil
	}
	if err := s.ds.Update(ctx, models.CollPujas, id, docstore.Fields{"status": to}); err != nil {
		return models.Puja{}, err
	}
	return s.GetByID(ctx, id)
}

// Delete removes the puja document only. Its Contributions_, BudgetAllocations_
// and ParaCollections_ collections stay behind; the orphan scan reports them.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.ds.Delete(ctx, models.CollPujas, id)
}
