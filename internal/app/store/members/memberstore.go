// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/system/authutil"
	"github.com/dalemusser/pujahub/internal/app/system/inputval"
	"github.com/dalemusser/pujahub/internal/app/system/normalize"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

var (
	ErrDuplicateEmail     = errors.New("a member with this email already exists")
	ErrDuplicateContact   = errors.New("a member with this contact number already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Store struct {
	ds docstore.Store
}

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Input is the writable part of a member. An empty Password on update keeps
// the stored hash.
type Input struct {
	Name     string `json:"name" validate:"required,max=100" label:"Name"`
	Role     string `json:"role" validate:"required" label:"Role"`
	Contact  string `json:"contact" validate:"required,phone10" label:"Contact"`
	Email    string `json:"email" validate:"required,emailaddr" label:"Email"`
	Password string `json:"password" validate:"omitempty,min=6,max=72" label:"Password"`
	ClubID   string `json:"clubId"`
}

func (in *Input) normalize() {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Contact = normalize.Contact(in.Contact)
}

func (in Input) check() error {
	if err := inputval.Check(in); err != nil {
		return err
	}
	if !models.ValidDomainRole(in.Role) {
		return inputval.Fail("role", "Role must be one of the committee roles.")
	}
	return nil
}

// Create validates in, checks email and contact uniqueness and stores the
// member with a hashed password.
func (s *Store) Create(ctx context.Context, in Input) (models.Member, error) {
	in.normalize()
	if err := in.check(); err != nil {
		return models.Member{}, err
	}
	m := models.Member{
		Name:    in.Name,
		Role:    in.Role,
		Contact: in.Contact,
		Email:   in.Email,
		ClubID:  in.ClubID,
	}
	if in.Password != "" {
		hash, err := authutil.HashPassword(in.Password)
		if err != nil {
			return models.Member{}, err
		}
		m.Password = hash
	}
	return s.Insert(ctx, m)
}

// Insert stores m as given (Password must already be a hash) after the
// uniqueness checks. Registration approval uses it to copy a pending
// member's hash.
func (s *Store) Insert(ctx context.Context, m models.Member) (models.Member, error) {
	if err := s.checkUnique(ctx, m.Email, m.Contact, ""); err != nil {
		return models.Member{}, err
	}
	m.NameCI = text.Fold(m.Name)
	fields, err := docstore.Encode(m)
	if err != nil {
		return models.Member{}, err
	}
	id, err := s.ds.Add(ctx, models.CollMembers, fields)
	if err != nil {
		return models.Member{}, fmt.Errorf("add member: %w", err)
	}
	return s.GetByID(ctx, id)
}

// checkUnique is a lookup before write; two concurrent inserts can both pass.
func (s *Store) checkUnique(ctx context.Context, email, contact, excludeID string) error {
	if email != "" {
		taken, err := s.exists(ctx, "email", email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}
	}
	if contact != "" {
		taken, err := s.exists(ctx, "contact", contact, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateContact
		}
	}
	return nil
}

func (s *Store) exists(ctx context.Context, field, value, excludeID string) (bool, error) {
	recs, err := s.ds.Find(ctx, models.CollMembers, field, value)
	if err != nil {
		return false, err
	}
	for _, r := range recs {
		if r.ID() != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// EmailExists reports whether any member uses email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email", normalize.Email(email), "")
}

// ContactExists reports whether any member uses contact.
func (s *Store) ContactExists(ctx context.Context, contact string) (bool, error) {
	return s.exists(ctx, "contact", normalize.Contact(contact), "")
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Member, error) {
	rec, err := docstore.Get(ctx, s.ds, models.CollMembers, id)
	if err != nil {
		return models.Member{}, err
	}
	var m models.Member
	err = docstore.Decode(rec, &m)
	return m, err
}

// GetByEmail returns docstore.ErrNotFound when no member has email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Member, error) {
	recs, err := s.ds.Find(ctx, models.CollMembers, "email", normalize.Email(email))
	if err != nil {
		return models.Member{}, err
	}
	if len(recs) == 0 {
		return models.Member{}, docstore.ErrNotFound
	}
	var m models.Member
	err = docstore.Decode(recs[0], &m)
	return m, err
}

// List returns members newest first. A non-empty clubID restricts the list
// to that club.
func (s *Store) List(ctx context.Context, clubID string) ([]models.Member, error) {
	var (
		recs []docstore.Record
		err  error
	)
	if clubID == "" {
		recs, err = s.ds.List(ctx, models.CollMembers)
	} else {
		recs, err = s.ds.Find(ctx, models.CollMembers, "clubId", clubID)
	}
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.Member](recs), nil
}

// Update replaces the writable fields of member id.
func (s *Store) Update(ctx context.Context, id string, in Input) (models.Member, error) {
	in.normalize()
	if err := in.check(); err != nil {
		return models.Member{}, err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return models.Member{}, err
	}
	if err := s.checkUnique(ctx, in.Email, in.Contact, id); err != nil {
		return models.Member{}, err
	}
	set := docstore.Fields{
		"name":    in.Name,
		"nameCi":  text.Fold(in.Name),
		"role":    in.Role,
		"contact": in.Contact,
		"email":   in.Email,
		"clubId":  in.ClubID,
	}
	if in.Password != "" {
		hash, err := authutil.HashPassword(in.Password)
		if err != nil {
			return models.Member{}, err
		}
		set["password"] = hash
	}
	if err := s.ds.Update(ctx, models.CollMembers, id, set); err != nil {
		return models.Member{}, fmt.Errorf("update member: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.ds.Delete(ctx, models.CollMembers, id)
}

// Authenticate returns the member whose email and password match. Members
// without a password cannot sign in.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.Member, error) {
	m, err := s.GetByEmail(ctx, email)
	if errors.Is(err, docstore.ErrNotFound) {
		return models.Member{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Member{}, err
	}
	if !authutil.CheckPassword(password, m.Password) {
		return models.Member{}, ErrInvalidCredentials
	}
	return m, nil
}
