// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/pujahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the top-level collections (if missing) and tries to
// attach JSON-Schema validators. On servers that don't support
// collMod/validators (e.g. some DocumentDB versions), we log and skip.
//
// Validation is moderate: documents written before a schema change are not
// rechecked until they are updated.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure(models.CollMembers, membersSchema())
	ensure(models.CollPendingMembers, pendingSchema())
	ensure(models.CollClubs, clubsSchema())
	ensure(models.CollPujas, pujasSchema())
	ensure(models.CollBudgetItems, named())
	ensure(models.CollExpenses, expensesSchema())

	// Free-form enough that the record kinds' own validation is sufficient.
	for _, c := range []string{
		models.CollSponsors, models.CollInventory, models.CollTasks,
		models.CollEvents, models.CollParticipants, models.CollPrizes,
		models.CollAuditLog,
	} {
		ensure(c, nil)
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	text    = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	str     = bson.M{"bsonType": bson.A{"string", "null"}}
	number  = bson.M{"bsonType": bson.A{"int", "long", "double", "decimal"}}
	nonNeg  = bson.M{"bsonType": bson.A{"int", "long", "double", "decimal"}, "minimum": 0}
	stamped = bson.M{"bsonType": bson.A{"string", "date"}}
)

func object(required []string, props bson.M) bson.M {
	req := bson.A{}
	for _, r := range required {
		req = append(req, r)
	}
	props["createdAt"] = stamped
	props["updatedAt"] = stamped
	return bson.M{"$jsonSchema": bson.M{
		"bsonType":   "object",
		"required":   req,
		"properties": props,
	}}
}

func named() bson.M {
	return object([]string{"name"}, bson.M{"name": text})
}

func membersSchema() bson.M {
	return object([]string{"name", "role"}, bson.M{
		"name":     text,
		"nameCi":   str,
		"role":     bson.M{"bsonType": "string"},
		"email":    str,
		"contact":  str,
		"clubId":   str,
		"password": str,
	})
}

func pendingSchema() bson.M {
	return object([]string{"name", "email", "status"}, bson.M{
		"name":   text,
		"email":  text,
		"status": bson.M{"enum": bson.A{models.PendingStatusPending, models.PendingStatusApproved, models.PendingStatusRejected}},
	})
}

func clubsSchema() bson.M {
	return object([]string{"name", "email"}, bson.M{
		"name":  text,
		"email": text,
	})
}

func pujasSchema() bson.M {
	return object([]string{"name", "year", "status"}, bson.M{
		"name":   text,
		"year":   number,
		"status": bson.M{"enum": bson.A{models.PujaPending, models.PujaActive, models.PujaCompleted}},
		"clubId": str,
	})
}

func expensesSchema() bson.M {
	return object([]string{"description", "amount", "category"}, bson.M{
		"description": text,
		"amount":      nonNeg,
		"category":    text,
		"clubId":      str,
	})
}
