package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/system/authutil"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures writes test data straight into a document store, bypassing the
// validation in the stores.
type Fixtures struct {
	ds docstore.Store
	t  *testing.T
}

func NewFixtures(t *testing.T, ds docstore.Store) *Fixtures {
	t.Helper()
	return &Fixtures{ds: ds, t: t}
}

// Store returns the underlying document store.
func (f *Fixtures) Store() docstore.Store {
	return f.ds
}

func (f *Fixtures) add(ctx context.Context, name string, v any) string {
	f.t.Helper()
	fields, err := docstore.Encode(v)
	if err != nil {
		f.t.Fatalf("encode %s fixture: %v", name, err)
	}
	id, err := f.ds.Add(ctx, name, fields)
	if err != nil {
		f.t.Fatalf("create %s fixture: %v", name, err)
	}
	return id
}

// CreateMember creates a member. A non-empty password is stored hashed.
func (f *Fixtures) CreateMember(ctx context.Context, name, email, contact, role, clubID, password string) models.Member {
	f.t.Helper()
	m := models.Member{
		Name:    name,
		NameCI:  text.Fold(name),
		Role:    role,
		Contact: contact,
		Email:   email,
		ClubID:  clubID,
	}
	if password != "" {
		hash, err := authutil.HashPassword(password)
		if err != nil {
			f.t.Fatalf("hash password: %v", err)
		}
		m.Password = hash
	}
	m.ID = f.add(ctx, models.CollMembers, m)
	return m
}

// CreateClub creates a club whose login password is password.
func (f *Fixtures) CreateClub(ctx context.Context, name, email, password string) models.Club {
	f.t.Helper()
	hash, err := authutil.HashPassword(password)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	c := models.Club{Name: name, Email: email, Password: hash}
	c.ID = f.add(ctx, models.CollClubs, c)
	return c
}

func (f *Fixtures) CreatePuja(ctx context.Context, name string, year int, status, clubID string) models.Puja {
	f.t.Helper()
	p := models.Puja{Name: name, Year: year, Status: status, ClubID: clubID}
	p.ID = f.add(ctx, models.CollPujas, p)
	return p
}

func (f *Fixtures) CreateBudgetItem(ctx context.Context, name, category string) models.BudgetItem {
	f.t.Helper()
	b := models.BudgetItem{Name: name, Category: category}
	b.ID = f.add(ctx, models.CollBudgetItems, b)
	return b
}

// Allocate writes an allocation for item under pujaID.
func (f *Fixtures) Allocate(ctx context.Context, pujaID string, item models.BudgetItem, amount float64) models.BudgetAllocation {
	f.t.Helper()
	a := models.BudgetAllocation{
		BudgetItemID:       item.ID,
		BudgetItemName:     item.Name,
		BudgetItemCategory: item.Category,
		AllocatedAmount:    amount,
		PujaID:             pujaID,
	}
	a.ID = f.add(ctx, docstore.Scoped(models.BaseBudgetAllocations, pujaID), a)
	return a
}

func (f *Fixtures) CreateExpense(ctx context.Context, category string, amount float64, clubID string) models.Expense {
	f.t.Helper()
	e := models.Expense{Description: category, Category: category, Amount: amount, ClubID: clubID}
	e.ID = f.add(ctx, models.CollExpenses, e)
	return e
}

func (f *Fixtures) CreateContribution(ctx context.Context, pujaID, memberID string, amount float64) models.Contribution {
	f.t.Helper()
	c := models.Contribution{MemberID: memberID, Amount: amount, PujaID: pujaID}
	c.ID = f.add(ctx, docstore.Scoped(models.BaseContributions, pujaID), c)
	return c
}
