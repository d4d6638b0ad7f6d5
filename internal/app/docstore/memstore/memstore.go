// internal/app/docstore/memstore/memstore.go

// Package memstore is an in-process docstore backend. It backs the
// "memory" store_backend and most tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/oklog/ulid/v2"
)

// Store keeps every collection in a map guarded by one mutex.
type Store struct {
	mu    sync.RWMutex
	colls map[string]map[string]docstore.Record
	subs  map[string]map[*docstore.Subscription]struct{}
	now   func() time.Time
}

var _ docstore.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		colls: make(map[string]map[string]docstore.Record),
		subs:  make(map[string]map[*docstore.Subscription]struct{}),
		now:   time.Now,
	}
}

// SetClock overrides the stamp clock (tests).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Add(ctx context.Context, name string, fields docstore.Fields) (string, error) {
	if err := docstore.ValidName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ulid.Make().String()
	rec := docstore.Record(docstore.ForInsert(fields, s.now()))
	rec[docstore.FieldID] = id

	c, ok := s.colls[name]
	if !ok {
		c = make(map[string]docstore.Record)
		s.colls[name] = c
	}
	c[id] = rec
	s.notifyLocked(name)
	return id, nil
}

func (s *Store) Update(ctx context.Context, name, id string, fields docstore.Fields) error {
	if err := docstore.ValidName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.colls[name][id]
	if !ok {
		return docstore.ErrNotFound
	}
	next := rec.Clone()
	for k, v := range docstore.ForUpdate(fields, s.now()) {
		next[k] = v
	}
	s.colls[name][id] = next
	s.notifyLocked(name)
	return nil
}

func (s *Store) Delete(ctx context.Context, name, id string) error {
	if err := docstore.ValidName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.colls[name][id]; !ok {
		return docstore.ErrNotFound
	}
	delete(s.colls[name], id)
	if len(s.colls[name]) == 0 {
		delete(s.colls, name)
	}
	s.notifyLocked(name)
	return nil
}

func (s *Store) List(ctx context.Context, name string) ([]docstore.Record, error) {
	if err := docstore.ValidName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(name), nil
}

func (s *Store) Find(ctx context.Context, name, field string, value any) ([]docstore.Record, error) {
	all, err := s.List(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]docstore.Record, 0)
	for _, r := range all {
		if r[field] == value {
			out = append(out, r)
		}
	}
	return out, nil
}

// Subscribe registers a subscription and immediately publishes the current
// snapshot. It is removed when ctx ends or the subscription is cancelled.
func (s *Store) Subscribe(ctx context.Context, name string) (*docstore.Subscription, error) {
	if err := docstore.ValidName(name); err != nil {
		return nil, err
	}
	var sub *docstore.Subscription
	sub = docstore.NewSubscription(name, func() {
		s.mu.Lock()
		delete(s.subs[name], sub)
		s.mu.Unlock()
	})

	s.mu.Lock()
	if s.subs[name] == nil {
		s.subs[name] = make(map[*docstore.Subscription]struct{})
	}
	s.subs[name][sub] = struct{}{}
	sub.Publish(s.snapshotLocked(name))
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Cancel()
		case <-sub.Done():
		}
	}()
	return sub, nil
}

func (s *Store) Collections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.colls))
	for n := range s.colls {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) snapshotLocked(name string) []docstore.Record {
	c := s.colls[name]
	out := make([]docstore.Record, 0, len(c))
	for _, r := range c {
		out = append(out, r.Clone())
	}
	docstore.SortNewestFirst(out)
	return out
}

func (s *Store) notifyLocked(name string) {
	subs := s.subs[name]
	if len(subs) == 0 {
		return
	}
	for sub := range subs {
		sub.Publish(s.snapshotLocked(name))
	}
}
