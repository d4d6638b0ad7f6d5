// internal/app/docstore/mongostore/mongostore.go

// Package mongostore is the MongoDB docstore backend. Subscriptions follow
// a change stream on the collection and re-read the full snapshot on every
// event. Standalone servers have no change streams; there the subscription
// falls back to polling.
package mongostore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DefaultPollInterval is used when change streams are unavailable.
const DefaultPollInterval = 2 * time.Second

type Store struct {
	db           *mongo.Database
	log          *zap.Logger
	pollInterval time.Duration
	now          func() time.Time

	indexed sync.Map // collection name -> struct{}
}

var _ docstore.Store = (*Store)(nil)

// New wraps db. A zero pollInterval means DefaultPollInterval.
func New(db *mongo.Database, pollInterval time.Duration, logger *zap.Logger) *Store {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Store{db: db, log: logger, pollInterval: pollInterval, now: time.Now}
}

func (s *Store) Add(ctx context.Context, name string, fields docstore.Fields) (string, error) {
	if err := docstore.ValidName(name); err != nil {
		return "", err
	}
	s.ensureCreatedIndex(ctx, name)

	oid := primitive.NewObjectID()
	doc := bson.M{"_id": oid}
	for k, v := range docstore.ForInsert(fields, s.now()) {
		doc[k] = v
	}
	if _, err := s.db.Collection(name).InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return oid.Hex(), nil
}

func (s *Store) Update(ctx context.Context, name, id string, fields docstore.Fields) error {
	if err := docstore.ValidName(name); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return docstore.ErrNotFound
	}
	set := bson.M{}
	for k, v := range docstore.ForUpdate(fields, s.now()) {
		set[k] = v
	}
	res, err := s.db.Collection(name).UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name, id string) error {
	if err := docstore.ValidName(name); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return docstore.ErrNotFound
	}
	res, err := s.db.Collection(name).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context, name string) ([]docstore.Record, error) {
	return s.find(ctx, name, bson.M{})
}

func (s *Store) Find(ctx context.Context, name, field string, value any) ([]docstore.Record, error) {
	if err := docstore.ValidName(name); err != nil {
		return nil, err
	}
	if field == docstore.FieldID {
		str, _ := value.(string)
		oid, err := primitive.ObjectIDFromHex(str)
		if err != nil {
			return []docstore.Record{}, nil
		}
		return s.find(ctx, name, bson.M{"_id": oid})
	}
	return s.find(ctx, name, bson.M{field: value})
}

func (s *Store) find(ctx context.Context, name string, filter bson.M) ([]docstore.Record, error) {
	if err := docstore.ValidName(name); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{
		{Key: docstore.FieldCreatedAt, Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := s.db.Collection(name).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]docstore.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, toRecord(d))
	}
	return out, nil
}

// Subscribe opens the change stream before reading the initial snapshot so
// no write can fall between the two.
func (s *Store) Subscribe(ctx context.Context, name string) (*docstore.Subscription, error) {
	if err := docstore.ValidName(name); err != nil {
		return nil, err
	}
	subCtx, cancel := context.WithCancel(ctx)
	sub := docstore.NewSubscription(name, cancel)

	cs, err := s.db.Collection(name).Watch(subCtx, mongo.Pipeline{})
	if err != nil && !isChangeStreamUnsupported(err) {
		cancel()
		return nil, err
	}

	initial, err := s.List(subCtx, name)
	if err != nil {
		if cs != nil {
			_ = cs.Close(context.Background())
		}
		cancel()
		return nil, err
	}
	sub.Publish(initial)

	if cs == nil {
		s.log.Debug("change streams unavailable; polling collection",
			zap.String("collection", name),
			zap.Duration("interval", s.pollInterval))
		go s.poll(subCtx, sub, signature(initial))
		return sub, nil
	}
	go s.follow(subCtx, sub, cs)
	return sub, nil
}

func (s *Store) follow(ctx context.Context, sub *docstore.Subscription, cs *mongo.ChangeStream) {
	defer cs.Close(context.Background())

	for cs.Next(ctx) {
		recs, err := s.List(ctx, sub.Name())
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			s.log.Warn("snapshot reload failed", zap.String("collection", sub.Name()), zap.Error(err))
			sub.Close(err)
			return
		}
		sub.Publish(recs)
	}
	if ctx.Err() != nil {
		sub.Close(nil)
		return
	}
	sub.Close(cs.Err())
}

func (s *Store) poll(ctx context.Context, sub *docstore.Subscription, last string) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sub.Close(nil)
			return
		case <-ticker.C:
			recs, err := s.List(ctx, sub.Name())
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				s.log.Warn("poll failed", zap.String("collection", sub.Name()), zap.Error(err))
				continue
			}
			if sig := signature(recs); sig != last {
				last = sig
				sub.Publish(recs)
			}
		}
	}
}

func (s *Store) Collections(ctx context.Context) ([]string, error) {
	return s.db.ListCollectionNames(ctx, bson.M{})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *Store) ensureCreatedIndex(ctx context.Context, name string) {
	if _, done := s.indexed.LoadOrStore(name, struct{}{}); done {
		return
	}
	_, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: docstore.FieldCreatedAt, Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("idx_created_desc"),
	})
	if err != nil {
		s.indexed.Delete(name)
		s.log.Warn("ensure created index failed", zap.String("collection", name), zap.Error(err))
	}
}

// signature identifies a snapshot by ids and update stamps.
func signature(recs []docstore.Record) string {
	var b strings.Builder
	for _, r := range recs {
		b.WriteString(r.ID())
		b.WriteByte('@')
		b.WriteString(r.String(docstore.FieldUpdatedAt))
		b.WriteByte(';')
	}
	return b.String()
}

func toRecord(d bson.M) docstore.Record {
	rec := make(docstore.Record, len(d))
	for k, v := range d {
		if k == "_id" {
			if oid, ok := v.(primitive.ObjectID); ok {
				rec[docstore.FieldID] = oid.Hex()
			} else {
				rec[docstore.FieldID] = v
			}
			continue
		}
		rec[k] = plain(v)
	}
	return rec
}

// plain converts driver container types into plain maps and slices.
func plain(v any) any {
	switch t := v.(type) {
	case bson.M:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = plain(vv)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.A:
		a := make([]any, len(t))
		for i, vv := range t {
			a[i] = plain(vv)
		}
		return a
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return docstore.Stamp(t.Time())
	}
	return v
}

// isChangeStreamUnsupported matches the errors a standalone mongod returns
// for $changeStream.
func isChangeStreamUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 40573 || ce.Code == 40324) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "only supported on replica sets") ||
		strings.Contains(s, "changestream") && strings.Contains(s, "not supported")
}
