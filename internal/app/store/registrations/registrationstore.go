// internal/app/store/registrations/registrationstore.go
package registrationstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	memberstore "github.com/dalemusser/pujahub/internal/app/store/members"
	"github.com/dalemusser/pujahub/internal/app/system/authutil"
	"github.com/dalemusser/pujahub/internal/app/system/inputval"
	"github.com/dalemusser/pujahub/internal/app/system/normalize"
	"github.com/dalemusser/pujahub/internal/domain/models"
)

var (
	ErrAlreadyMember  = errors.New("this email or contact number is already a member")
	ErrAlreadyPending = errors.New("a registration with this email is already awaiting review")
	ErrNotPending     = errors.New("this registration has already been reviewed")
)

type Store struct {
	ds      docstore.Store
	members *memberstore.Store
	now     func() time.Time
}

func New(ds docstore.Store) *Store {
	return &Store{ds: ds, members: memberstore.New(ds), now: time.Now}
}

// Input is a self-service registration form.
type Input struct {
	Name            string `json:"name" validate:"required,max=100" label:"Name"`
	Email           string `json:"email" validate:"required,emailaddr" label:"Email"`
	Contact         string `json:"contact" validate:"required,phone10" label:"Contact"`
	Password        string `json:"password" validate:"required,min=6,max=72" label:"Password"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password" label:"Confirm password"`
	ClubID          string `json:"clubId"`
}

// Submit validates in and stores a pending registration. An email or contact
// already on a member yields ErrAlreadyMember and nothing is written. A
// rejected applicant may submit again; only a still-pending registration
// with the same email blocks.
func (s *Store) Submit(ctx context.Context, in Input) (models.PendingMember, error) {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Contact = normalize.Contact(in.Contact)
	if err := inputval.Check(in); err != nil {
		return models.PendingMember{}, err
	}

	taken, err := s.members.EmailExists(ctx, in.Email)
	if err == nil && !taken {
		taken, err = s.members.ContactExists(ctx, in.Contact)
	}
	if err != nil {
		return models.PendingMember{}, err
	}
	if taken {
		return models.PendingMember{}, ErrAlreadyMember
	}

	open, err := s.ds.Find(ctx, models.CollPendingMembers, "email", in.Email)
	if err != nil {
		return models.PendingMember{}, err
	}
	for _, r := range open {
		if r.String("status") == models.PendingStatusPending {
			return models.PendingMember{}, ErrAlreadyPending
		}
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		return models.PendingMember{}, err
	}
	p := models.PendingMember{
		Name:        in.Name,
		Email:       in.Email,
		Contact:     in.Contact,
		Password:    hash,
		ClubID:      in.ClubID,
		Status:      models.PendingStatusPending,
		RequestedAt: docstore.Stamp(s.now()),
	}
	fields, err := docstore.Encode(p)
	if err != nil {
		return models.PendingMember{}, err
	}
	id, err := s.ds.Add(ctx, models.CollPendingMembers, fields)
	if err != nil {
		return models.PendingMember{}, fmt.Errorf("add registration: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *Store) GetByID(ctx context.Context, id string) (models.PendingMember, error) {
	rec, err := docstore.Get(ctx, s.ds, models.CollPendingMembers, id)
	if err != nil {
		return models.PendingMember{}, err
	}
	var p models.PendingMember
	err = docstore.Decode(rec, &p)
	return p, err
}

// List returns registrations newest first, filtered by status and club when
// those are non-empty.
func (s *Store) List(ctx context.Context, status, clubID string) ([]models.PendingMember, error) {
	var (
		recs []docstore.Record
		err  error
	)
	if status != "" {
		recs, err = s.ds.Find(ctx, models.CollPendingMembers, "status", status)
	} else {
		recs, err = s.ds.List(ctx, models.CollPendingMembers)
	}
	if err != nil {
		return nil, err
	}
	out := make([]models.PendingMember, 0, len(recs))
	for _, p := range docstore.DecodeAll[models.PendingMember](recs) {
		if clubID != "" && p.ClubID != clubID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Approve creates a member from registration id with role and marks the
// registration approved by reviewerID.
func (s *Store) Approve(ctx context.Context, id, role, reviewerID string) (models.Member, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Member{}, err
	}
	if p.Status != models.PendingStatusPending {
		return models.Member{}, ErrNotPending
	}
	if !models.ValidDomainRole(role) {
		return models.Member{}, inputval.Fail("role", "Role must be one of the committee roles.")
	}

	m, err := s.members.Insert(ctx, models.Member{
		Name:     p.Name,
		Role:     role,
		Contact:  p.Contact,
		Email:    p.Email,
		Password: p.Password,
		ClubID:   p.ClubID,
	})
	if errors.Is(err, memberstore.ErrDuplicateEmail) || errors.Is(err, memberstore.ErrDuplicateContact) {
		return models.Member{}, ErrAlreadyMember
	}
	if err != nil {
		return models.Member{}, err
	}

	err = s.ds.Update(ctx, models.CollPendingMembers, id, docstore.Fields{
		"status":      models.PendingStatusApproved,
		"reviewedBy":  reviewerID,
		"reviewedAt":  docstore.Stamp(s.now()),
		"grantedRole": role,
		"memberId":    m.ID,
	})
	if err != nil {
		return m, fmt.Errorf("mark registration approved: %w", err)
	}
	return m, nil
}

// Reject marks registration id rejected. No member is created.
func (s *Store) Reject(ctx context.Context, id, reviewerID, note string) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Status != models.PendingStatusPending {
		return ErrNotPending
	}
	return s.ds.Update(ctx, models.CollPendingMembers, id, docstore.Fields{
		"status":        models.PendingStatusRejected,
		"reviewedBy":    reviewerID,
		"reviewedAt":    docstore.Stamp(s.now()),
		"rejectionNote": normalize.Name(note),
	})
}
