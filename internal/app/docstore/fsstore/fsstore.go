// internal/app/docstore/fsstore/fsstore.go

// Package fsstore is the Cloud Firestore docstore backend. Firestore query
// snapshots already have the replay-then-push shape a Subscription needs.
package fsstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/dalemusser/pujahub/internal/app/docstore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Store struct {
	client *firestore.Client
	log    *zap.Logger
	now    func() time.Time
}

var _ docstore.Store = (*Store)(nil)

// Open initialises a Firebase app for projectID and returns a store on its
// Firestore client. An empty credentialsFile uses application default
// credentials.
func Open(ctx context.Context, projectID, credentialsFile string, logger *zap.Logger) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	logger.Info("firestore client ready", zap.String("project", projectID))
	return New(client, logger), nil
}

// New wraps an existing client.
func New(client *firestore.Client, logger *zap.Logger) *Store {
	return &Store{client: client, log: logger, now: time.Now}
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Add(ctx context.Context, name string, fields docstore.Fields) (string, error) {
	if err := docstore.ValidName(name); err != nil {
		return "", err
	}
	ref, _, err := s.client.Collection(name).Add(ctx, map[string]any(docstore.ForInsert(fields, s.now())))
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// Update fails with ErrNotFound when the document does not exist. Each key
// is written as a single-segment field path so dotted keys stay literal.
func (s *Store) Update(ctx context.Context, name, id string, fields docstore.Fields) error {
	if err := docstore.ValidName(name); err != nil {
		return err
	}
	set := docstore.ForUpdate(fields, s.now())
	ups := make([]firestore.Update, 0, len(set))
	for k, v := range set {
		ups = append(ups, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	_, err := s.client.Collection(name).Doc(id).Update(ctx, ups)
	return mapErr(err)
}

func (s *Store) Delete(ctx context.Context, name, id string) error {
	if err := docstore.ValidName(name); err != nil {
		return err
	}
	_, err := s.client.Collection(name).Doc(id).Delete(ctx, firestore.Exists)
	return mapErr(err)
}

func (s *Store) List(ctx context.Context, name string) ([]docstore.Record, error) {
	if err := docstore.ValidName(name); err != nil {
		return nil, err
	}
	docs, err := s.newestFirst(name).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return toRecords(docs), nil
}

// Find relies on toRecords for ordering so no composite index is needed
// per field.
func (s *Store) Find(ctx context.Context, name, field string, value any) ([]docstore.Record, error) {
	if err := docstore.ValidName(name); err != nil {
		return nil, err
	}
	if field == docstore.FieldID {
		str, _ := value.(string)
		snap, err := s.client.Collection(name).Doc(str).Get(ctx)
		if status.Code(err) == codes.NotFound {
			return []docstore.Record{}, nil
		}
		if err != nil {
			return nil, err
		}
		return toRecords([]*firestore.DocumentSnapshot{snap}), nil
	}
	docs, err := s.client.Collection(name).Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return toRecords(docs), nil
}

func (s *Store) Subscribe(ctx context.Context, name string) (*docstore.Subscription, error) {
	if err := docstore.ValidName(name); err != nil {
		return nil, err
	}
	subCtx, cancel := context.WithCancel(ctx)
	it := s.newestFirst(name).Snapshots(subCtx)
	sub := docstore.NewSubscription(name, func() {
		cancel()
		it.Stop()
	})

	go func() {
		for {
			qs, err := it.Next()
			if err != nil {
				if subCtx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
					sub.Close(nil)
					return
				}
				s.log.Warn("firestore snapshot stream failed", zap.String("collection", name), zap.Error(err))
				sub.Close(err)
				return
			}
			docs, err := qs.Documents.GetAll()
			if err != nil {
				s.log.Warn("firestore snapshot read failed", zap.String("collection", name), zap.Error(err))
				continue
			}
			if !sub.Publish(toRecords(docs)) {
				return
			}
		}
	}()
	return sub, nil
}

func (s *Store) Collections(ctx context.Context) ([]string, error) {
	var names []string
	it := s.client.Collections(ctx)
	for {
		ref, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		names = append(names, ref.ID)
	}
	return names, nil
}

// Ping lists at most one collection.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.Collections(ctx).Next()
	if err == nil || errors.Is(err, iterator.Done) {
		return nil
	}
	return err
}

func (s *Store) newestFirst(name string) firestore.Query {
	return s.client.Collection(name).OrderBy(docstore.FieldCreatedAt, firestore.Desc)
}

func toRecords(docs []*firestore.DocumentSnapshot) []docstore.Record {
	out := make([]docstore.Record, 0, len(docs))
	for _, d := range docs {
		if !d.Exists() {
			continue
		}
		rec := docstore.Record(d.Data())
		rec[docstore.FieldID] = d.Ref.ID
		out = append(out, rec)
	}
	docstore.SortNewestFirst(out)
	return out
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return docstore.ErrNotFound
	}
	return err
}
