// internal/app/docstore/docstore.go

// Package docstore defines the document-store contract the rest of PujaHub
// is written against: named collections of schemaless records, CRUD by id,
// and a subscribe-to-collection stream that replays the current snapshot and
// then pushes a fresh full snapshot on every change.
//
// Backends live in sub-packages (memstore, mongostore, firestore).
package docstore

import (
	"context"
	"errors"
	"sort"
	"time"
)

// Reserved record keys. Every backend stamps CreatedAt/UpdatedAt as
// TimeLayout strings and exposes the document id under FieldID.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// TimeLayout is fixed-width UTC with millisecond precision so that the
// lexical order of stamps equals their chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrNotFound is returned by Update/Delete when the id does not exist.
	ErrNotFound = errors.New("docstore: record not found")
	// ErrBadCollection is returned for an empty or malformed collection name.
	ErrBadCollection = errors.New("docstore: invalid collection name")
)

// Fields is the write-side payload of Add/Update.
type Fields map[string]any

// Store is implemented by every backend.
//
// Subscribe returns a replay-one stream: the first value on Subscription.C
// is the snapshot at subscribe time. Snapshots are ordered by createdAt
// descending. The subscription ends when ctx is done or Cancel is called.
type Store interface {
	Add(ctx context.Context, name string, fields Fields) (string, error)
	Update(ctx context.Context, name, id string, fields Fields) error
	Delete(ctx context.Context, name, id string) error
	List(ctx context.Context, name string) ([]Record, error)
	Find(ctx context.Context, name, field string, value any) ([]Record, error)
	Subscribe(ctx context.Context, name string) (*Subscription, error)
	Collections(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// Scoped returns the per-puja collection name "<base>_<pujaID>".
func Scoped(base, pujaID string) string {
	return base + "_" + pujaID
}

// Stamp formats t the way backends write createdAt/updatedAt.
func Stamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ForInsert returns a copy of f without reserved keys, stamped with
// createdAt and updatedAt.
func ForInsert(f Fields, now time.Time) Fields {
	out := clean(f)
	ts := Stamp(now)
	out[FieldCreatedAt] = ts
	out[FieldUpdatedAt] = ts
	return out
}

// ForUpdate returns a copy of f without reserved keys, re-stamped with
// updatedAt. createdAt is never rewritten by an update.
func ForUpdate(f Fields, now time.Time) Fields {
	out := clean(f)
	out[FieldUpdatedAt] = Stamp(now)
	return out
}

func clean(f Fields) Fields {
	out := make(Fields, len(f)+2)
	for k, v := range f {
		switch k {
		case FieldID, "_id", FieldCreatedAt, FieldUpdatedAt:
			continue
		}
		out[k] = v
	}
	return out
}

// ValidName rejects names that no backend can store.
func ValidName(name string) error {
	if name == "" || len(name) > 120 {
		return ErrBadCollection
	}
	for _, r := range name {
		if r == '/' || r == '$' || r == '.' || r == 0 {
			return ErrBadCollection
		}
	}
	return nil
}

// SortNewestFirst orders records by createdAt descending, breaking ties by
// id descending so snapshots are deterministic.
func SortNewestFirst(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		ci, cj := recs[i].String(FieldCreatedAt), recs[j].String(FieldCreatedAt)
		if ci != cj {
			return ci > cj
		}
		return recs[i].ID() > recs[j].ID()
	})
}

// Get returns the record with the given id, or ErrNotFound.
func Get(ctx context.Context, s Store, name, id string) (Record, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	recs, err := s.Find(ctx, name, FieldID, id)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs[0], nil
}
