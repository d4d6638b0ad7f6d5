// internal/app/store/clubs/clubstore.go
package clubstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/system/authutil"
	"github.com/dalemusser/pujahub/internal/app/system/inputval"
	"github.com/dalemusser/pujahub/internal/app/system/normalize"
	"github.com/dalemusser/pujahub/internal/domain/models"
)

var (
	ErrDuplicateEmail     = errors.New("a club with this email already exists")
	ErrInvalidCredentials = errors.New("invalid club email or password")
)

type Store struct {
	ds docstore.Store
}

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Input is the writable part of a club. Password is required on create and
// optional on update.
type Input struct {
	Name     string           `json:"name" validate:"required,max=100" label:"Name"`
	Email    string           `json:"email" validate:"required,emailaddr" label:"Email"`
	Password string           `json:"password" validate:"omitempty,min=6,max=72" label:"Password"`
	Roles    models.ClubRoles `json:"roles"`
}

func (s *Store) Create(ctx context.Context, in Input) (models.Club, error) {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	if err := inputval.Check(in); err != nil {
		return models.Club{}, err
	}
	if in.Password == "" {
		return models.Club{}, inputval.Fail("password", "Password is required.")
	}
	if err := s.checkEmail(ctx, in.Email, ""); err != nil {
		return models.Club{}, err
	}
	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		return models.Club{}, err
	}
	fields, err := docstore.Encode(models.Club{Name: in.Name, Email: in.Email, Password: hash, Roles: in.Roles})
	if err != nil {
		return models.Club{}, err
	}
	id, err := s.ds.Add(ctx, models.CollClubs, fields)
	if err != nil {
		return models.Club{}, fmt.Errorf("add club: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *Store) checkEmail(ctx context.Context, email, excludeID string) error {
	recs, err := s.ds.Find(ctx, models.CollClubs, "email", email)
	if err != nil {
		return err
	}
	for _, r := range recs {
		if r.ID() != excludeID {
			return ErrDuplicateEmail
		}
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Club, error) {
	rec, err := docstore.Get(ctx, s.ds, models.CollClubs, id)
	if err != nil {
		return models.Club{}, err
	}
	var c models.Club
	err = docstore.Decode(rec, &c)
	return c, err
}

func (s *Store) List(ctx context.Context) ([]models.Club, error) {
	recs, err := s.ds.List(ctx, models.CollClubs)
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.Club](recs), nil
}

func (s *Store) Update(ctx context.Context, id string, in Input) (models.Club, error) {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	if err := inputval.Check(in); err != nil {
		return models.Club{}, err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return models.Club{}, err
	}
	if err := s.checkEmail(ctx, in.Email, id); err != nil {
		return models.Club{}, err
	}
	roles, err := docstore.Encode(in.Roles)
	if err != nil {
		return models.Club{}, err
	}
	set := docstore.Fields{"name": in.Name, "email": in.Email, "roles": map[string]any(roles)}
	if in.Password != "" {
		hash, err := authutil.HashPassword(in.Password)
		if err != nil {
			return models.Club{}, err
		}
		set["password"] = hash
	}
	if err := s.ds.Update(ctx, models.CollClubs, id, set); err != nil {
		return models.Club{}, fmt.Errorf("update club: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.ds.Delete(ctx, models.CollClubs, id)
}

// Authenticate checks a club login pair.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.Club, error) {
	recs, err := s.ds.Find(ctx, models.CollClubs, "email", normalize.Email(email))
	if err != nil {
		return models.Club{}, err
	}
	if len(recs) == 0 {
		return models.Club{}, ErrInvalidCredentials
	}
	var c models.Club
	if err := docstore.Decode(recs[0], &c); err != nil {
		return models.Club{}, err
	}
	if !authutil.CheckPassword(password, c.Password) {
		return models.Club{}, ErrInvalidCredentials
	}
	return c, nil
}
