// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/pujahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup when the Mongo backend is in use. Each set is
idempotent. Errors are aggregated so every problem shows up in one run and
startup can fail fast.

The stores already check email and contact uniqueness before writing; the
unique indexes close the race between two concurrent writers.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string
	for _, set := range desired() {
		if err := ensureIndexSet(ctx, db.Collection(set.collection), set.models, logger); err != nil {
			problems = append(problems, set.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type indexSet struct {
	collection string
	models     []mongo.IndexModel
}

// nonEmpty limits a unique index to documents where field is a non-empty
// string, so records without an email do not collide.
func nonEmpty(field string) bson.M {
	return bson.M{field: bson.M{"$type": "string", "$gt": ""}}
}

func byClub(coll string) indexSet {
	return indexSet{coll, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "clubId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_" + coll + "_club_created"),
	}}}
}

func desired() []indexSet {
	return []indexSet{
		{models.CollMembers, []mongo.IndexModel{
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_members_email").
					SetPartialFilterExpression(nonEmpty("email")),
			},
			{
				Keys: bson.D{{Key: "contact", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_members_contact").
					SetPartialFilterExpression(nonEmpty("contact")),
			},
			{
				Keys:    bson.D{{Key: "clubId", Value: 1}, {Key: "nameCi", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_members_club_nameci_id"),
			},
		}},
		{models.CollPendingMembers, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}, {Key: "status", Value: 1}},
				Options: options.Index().SetName("idx_pending_email_status"),
			},
			{
				Keys:    bson.D{{Key: "clubId", Value: 1}, {Key: "status", Value: 1}},
				Options: options.Index().SetName("idx_pending_club_status"),
			},
		}},
		{models.CollClubs, []mongo.IndexModel{{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_clubs_email").
				SetPartialFilterExpression(nonEmpty("email")),
		}}},
		{models.CollPujas, []mongo.IndexModel{{
			Keys:    bson.D{{Key: "clubId", Value: 1}, {Key: "year", Value: -1}},
			Options: options.Index().SetName("idx_pujas_club_year"),
		}}},
		byClub(models.CollExpenses),
		byClub(models.CollTasks),
		byClub(models.CollEvents),
		byClub(models.CollParticipants),
		{models.CollAuditLog, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_audit_created"),
			},
			{
				Keys:    bson.D{{Key: "actorId", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("idx_audit_actor_created"),
			},
		}},
	}
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func isDuplicateKeyErr(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "E11000")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet reconciles one collection. An index with the same keys and
// uniqueness is reused under whatever name it has; one whose uniqueness
// differs is dropped and recreated.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel, logger *zap.Logger) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range want {
		name := *m.Options.Name
		unique := isUnique(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == unique {
				logger.Debug("reusing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop failed: %v", name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s: duplicates present on %s", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			continue
		}
		logger.Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
			zap.Duration("took", time.Since(start)))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
