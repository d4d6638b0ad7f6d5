// internal/app/store/records/recordstore.go
package recordstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"go.uber.org/zap"
)

// ErrNoPuja is returned for a puja-scoped kind called without a puja id.
var ErrNoPuja = errors.New("a puja must be selected")

// Store is the write path for the simple collections: sanitize, validate
// against the model, then add or update.
type Store struct {
	ds  docstore.Store
	log *zap.Logger
}

func New(ds docstore.Store, logger *zap.Logger) *Store {
	return &Store{ds: ds, log: logger}
}

func (s *Store) collection(k Kind, pujaID string) (string, error) {
	if k.Scoped && pujaID == "" {
		return "", ErrNoPuja
	}
	return k.CollectionFor(pujaID), nil
}

func (k Kind) sanitize(in docstore.Fields) docstore.Fields {
	out := make(docstore.Fields, len(in))
	for key, v := range in {
		if !k.fields[key] {
			continue
		}
		out[key] = v
	}
	for _, key := range k.Plain {
		if str, ok := out[key].(string); ok {
			out[key] = htmlsanitize.StripTags(str)
		}
	}
	for _, key := range k.Rich {
		if str, ok := out[key].(string); ok {
			out[key] = htmlsanitize.Sanitize(str)
		}
	}
	return out
}

// List returns the records of k. For club-owned kinds a non-empty clubID
// restricts the result.
func (s *Store) List(ctx context.Context, k Kind, pujaID, clubID string) ([]docstore.Record, error) {
	name, err := s.collection(k, pujaID)
	if err != nil {
		return nil, err
	}
	if k.ClubOwned && clubID != "" {
		return s.ds.Find(ctx, name, "clubId", clubID)
	}
	return s.ds.List(ctx, name)
}

// Get returns one record of k.
func (s *Store) Get(ctx context.Context, k Kind, pujaID, id string) (docstore.Record, error) {
	name, err := s.collection(k, pujaID)
	if err != nil {
		return nil, err
	}
	return docstore.Get(ctx, s.ds, name, id)
}

// Create validates fields as a k record and adds it. Scoped records get the
// puja id and club-owned records default to clubID.
func (s *Store) Create(ctx context.Context, k Kind, pujaID, clubID string, fields docstore.Fields) (docstore.Record, error) {
	name, err := s.collection(k, pujaID)
	if err != nil {
		return nil, err
	}
	rec := docstore.Record(k.sanitize(fields))
	if k.Scoped {
		rec["pujaId"] = pujaID
	}
	if k.ClubOwned && clubID != "" && rec.String("clubId") == "" {
		rec["clubId"] = clubID
	}
	clean, err := k.check(rec)
	if err != nil {
		return nil, err
	}

	if k.Collection == models.BaseContributions {
		s.warnRepeatContribution(ctx, name, pujaID, rec.String("memberId"))
	}

	id, err := s.ds.Add(ctx, name, clean)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", k.Action, err)
	}
	return docstore.Get(ctx, s.ds, name, id)
}

// Contributions are informally one per member per puja; a repeat is allowed.
func (s *Store) warnRepeatContribution(ctx context.Context, name, pujaID, memberID string) {
	prior, err := s.ds.Find(ctx, name, "memberId", memberID)
	if err != nil || len(prior) == 0 {
		return
	}
	s.log.Warn("member already has a contribution for this puja",
		zap.String("puja_id", pujaID),
		zap.String("member_id", memberID),
		zap.Int("existing", len(prior)))
}

// Update applies a partial update. The merged record must still validate;
// only the keys present in fields are written. pujaId and clubId are fixed
// at creation.
func (s *Store) Update(ctx context.Context, k Kind, pujaID, id string, fields docstore.Fields) (docstore.Record, error) {
	name, err := s.collection(k, pujaID)
	if err != nil {
		return nil, err
	}
	existing, err := docstore.Get(ctx, s.ds, name, id)
	if err != nil {
		return nil, err
	}
	partial := k.sanitize(fields)
	delete(partial, "pujaId")
	delete(partial, "clubId")
	if len(partial) == 0 {
		return existing, nil
	}

	merged := existing.Clone()
	for key, v := range partial {
		merged[key] = v
	}
	clean, err := k.check(merged)
	if err != nil {
		return nil, err
	}
	set := make(docstore.Fields, len(partial))
	for key, v := range partial {
		if cv, ok := clean[key]; ok {
			set[key] = cv
		} else {
			set[key] = v
		}
	}
	if err := s.ds.Update(ctx, name, id, set); err != nil {
		return nil, fmt.Errorf("update %s: %w", k.Action, err)
	}
	return docstore.Get(ctx, s.ds, name, id)
}

func (s *Store) Delete(ctx context.Context, k Kind, pujaID, id string) error {
	name, err := s.collection(k, pujaID)
	if err != nil {
		return err
	}
	return s.ds.Delete(ctx, name, id)
}
