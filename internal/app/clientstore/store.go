// internal/app/clientstore/store.go

// Package clientstore is the in-memory mirror of subscribed collections.
// Snapshots arrive through SetCollection (normally from Bind); everything
// else is a pure accessor recomputed from the current snapshots on each
// call.
package clientstore

import (
	"sync"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/domain/models"
)

// Store holds the latest snapshot of each collection plus the selected club
// and puja. The zero value is not usable; call New.
type Store struct {
	mu     sync.RWMutex
	colls  map[string][]docstore.Record
	clubID string
	pujaID string

	lmu       sync.Mutex
	listeners map[int]func(name string)
	nextID    int
}

func New() *Store {
	return &Store{
		colls:     make(map[string][]docstore.Record),
		listeners: make(map[int]func(string)),
	}
}

// SetCollection replaces the whole slice held for name. It is the only way
// collection data changes. Listeners run after the swap, outside the lock.
func (s *Store) SetCollection(name string, recs []docstore.Record) {
	cp := make([]docstore.Record, len(recs))
	copy(cp, recs)

	s.mu.Lock()
	s.colls[name] = cp
	s.mu.Unlock()

	s.notify(name)
}

// Collection returns the current snapshot for name, or an empty slice.
func (s *Store) Collection(name string) []docstore.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.colls[name]
	out := make([]docstore.Record, len(src))
	copy(out, src)
	return out
}

// Has reports whether a snapshot for name has arrived.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.colls[name]
	return ok
}

// SelectClub sets the club used by the filtered accessors. Empty clears it.
func (s *Store) SelectClub(id string) {
	s.mu.Lock()
	s.clubID = id
	s.mu.Unlock()
	s.notify("")
}

func (s *Store) SelectedClub() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clubID
}

// SelectPuja sets the puja whose scoped collections the money and budget
// accessors read.
func (s *Store) SelectPuja(id string) {
	s.mu.Lock()
	s.pujaID = id
	s.mu.Unlock()
	s.notify("")
}

func (s *Store) SelectedPuja() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pujaID
}

// OnChange registers fn to be called with the collection name after every
// SetCollection, and with "" after a selection change. The returned func
// removes it.
func (s *Store) OnChange(fn func(name string)) (remove func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()

	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *Store) notify(name string) {
	s.lmu.Lock()
	fns := make([]func(string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(name)
	}
}

// scoped returns the snapshot of base for the selected puja.
func (s *Store) scoped(base string) []docstore.Record {
	pujaID := s.SelectedPuja()
	if pujaID == "" {
		return nil
	}
	return s.Collection(docstore.Scoped(base, pujaID))
}

// CollectionsFor lists every collection a puja dashboard mirrors: the
// top-level collections plus the puja's scoped ones.
func CollectionsFor(pujaID string) []string {
	names := []string{
		models.CollMembers,
		models.CollPujas,
		models.CollBudgetItems,
		models.CollExpenses,
		models.CollSponsors,
		models.CollInventory,
		models.CollTasks,
		models.CollEvents,
		models.CollParticipants,
		models.CollPrizes,
	}
	if pujaID != "" {
		for _, base := range models.ScopedBases {
			names = append(names, docstore.Scoped(base, pujaID))
		}
	}
	return names
}
