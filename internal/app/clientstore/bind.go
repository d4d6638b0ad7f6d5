// internal/app/clientstore/bind.go
package clientstore

import (
	"context"
	"fmt"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"golang.org/x/sync/errgroup"
)

// Bind subscribes to every name on ds and routes each snapshot into s with
// SetCollection. It blocks until ctx ends (returning nil) or a subscription
// fails (returning its error after cancelling the rest).
func Bind(ctx context.Context, ds docstore.Store, s *Store, names ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			sub, err := ds.Subscribe(gctx, name)
			if err != nil {
				return fmt.Errorf("subscribe %s: %w", name, err)
			}
			defer sub.Cancel()
			for recs := range sub.C() {
				s.SetCollection(name, recs)
			}
			if err := sub.Err(); err != nil {
				return fmt.Errorf("subscription %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Load fills s with one snapshot of each name, read concurrently. It is Bind
// for callers that need a single consistent view rather than a live mirror.
func Load(ctx context.Context, ds docstore.Store, s *Store, names ...string) error {
	recs := make([][]docstore.Record, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			list, err := ds.List(gctx, name)
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			recs[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, name := range names {
		s.SetCollection(name, recs[i])
	}
	return nil
}

// ForPuja returns a store loaded with everything a puja view reads, with
// pujaID and clubID selected.
func ForPuja(ctx context.Context, ds docstore.Store, pujaID, clubID string) (*Store, error) {
	s := New()
	s.SelectPuja(pujaID)
	s.SelectClub(clubID)
	if err := Load(ctx, ds, s, CollectionsFor(pujaID)...); err != nil {
		return nil, err
	}
	return s, nil
}
