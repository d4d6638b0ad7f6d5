package pujastore

import (
	"context"
	"sort"
	"strings"

	"github.com/dalemusser/pujahub/internal/domain/models"
)

// Orphan is a puja-scoped collection whose puja no longer exists.
type Orphan struct {
	Collection string `json:"collection"`
	Base       string `json:"base"`
	PujaID     string `json:"pujaId"`
}

// Orphans lists scoped collections left behind by deleted pujas. Deleting a
// puja does not remove its collections; this only finds them.
func (s *Store) Orphans(ctx context.Context) ([]Orphan, error) {
	names, err := s.ds.Collections(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.ds.List(ctx, models.CollPujas)
	if err != nil {
		return nil, err
	}
	live := make(map[string]bool, len(recs))
	for _, r := range recs {
		live[r.ID()] = true
	}

	var out []Orphan
	for _, name := range names {
		for _, base := range models.ScopedBases {
			id, ok := strings.CutPrefix(name, base+"_")
			if !ok || id == "" {
				continue
			}
			if !live[id] {
				out = append(out, Orphan{Collection: name, Base: base, PujaID: id})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Collection < out[j].Collection })
	return out, nil
}
