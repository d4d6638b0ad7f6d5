// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/domain/models"
)

// Event categories
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Auth event types
const (
	EventLoginSuccess         = "login_success"
	EventLoginFailed          = "login_failed"
	EventLoginFailedRateLimit = "login_failed_rate_limit"
	EventLogout               = "logout"
	EventClubSelected         = "club_selected"
)

// Admin event types
const (
	EventMemberCreated        = "member_created"
	EventMemberUpdated        = "member_updated"
	EventMemberDeleted        = "member_deleted"
	EventRegistrationApproved = "registration_approved"
	EventRegistrationRejected = "registration_rejected"
	EventClubCreated          = "club_created"
	EventClubDeleted          = "club_deleted"
	EventPujaStatusChanged    = "puja_status_changed"
	EventPujaDeleted          = "puja_deleted"
	EventBudgetSaved          = "budget_saved"
)

// Event is one audit record.
type Event struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	ClubID    string `json:"clubId,omitempty"`

	Category  string `json:"category"`
	EventType string `json:"eventType"`

	// UserID is the affected user; ActorID who acted, for admin events.
	UserID    string `json:"userId,omitempty"`
	ActorID   string `json:"actorId,omitempty"`
	ActorRole string `json:"actorRole,omitempty"`

	IP        string `json:"ip"`
	UserAgent string `json:"userAgent,omitempty"`

	Success       bool   `json:"success"`
	FailureReason string `json:"failureReason,omitempty"`

	Details map[string]string `json:"details,omitempty"`
}

// QueryFilter narrows Query. Empty fields match everything.
type QueryFilter struct {
	ClubID    string
	UserID    string
	Category  string
	EventType string
	Since     time.Time
}

func (f QueryFilter) match(e Event) bool {
	switch {
	case f.ClubID != "" && e.ClubID != f.ClubID:
		return false
	case f.UserID != "" && e.UserID != f.UserID && e.ActorID != f.UserID:
		return false
	case f.Category != "" && e.Category != f.Category:
		return false
	case f.EventType != "" && e.EventType != f.EventType:
		return false
	}
	if !f.Since.IsZero() {
		at, err := time.Parse(docstore.TimeLayout, e.CreatedAt)
		if err != nil || at.Before(f.Since) {
			return false
		}
	}
	return true
}

// Store manages audit event records.
type Store struct {
	ds docstore.Store
}

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Log inserts an audit event.
func (s *Store) Log(ctx context.Context, e Event) error {
	e.ID, e.CreatedAt = "", ""
	fields, err := docstore.Encode(e)
	if err != nil {
		return err
	}
	_, err = s.ds.Add(ctx, models.CollAuditLog, fields)
	return err
}

// Query returns matching events, newest first.
func (s *Store) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	var (
		recs []docstore.Record
		err  error
	)
	if f.ClubID != "" {
		recs, err = s.ds.Find(ctx, models.CollAuditLog, "clubId", f.ClubID)
	} else {
		recs, err = s.ds.List(ctx, models.CollAuditLog)
	}
	if err != nil {
		return nil, err
	}
	docstore.SortNewestFirst(recs)

	out := make([]Event, 0, len(recs))
	for _, e := range docstore.DecodeAll[Event](recs) {
		if f.match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}
