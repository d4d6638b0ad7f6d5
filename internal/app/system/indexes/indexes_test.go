package indexes_test

import (
	"testing"

	"github.com/dalemusser/pujahub/internal/app/system/indexes"
	"github.com/dalemusser/pujahub/internal/domain/models"
	"github.com/dalemusser/pujahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func indexNames(t *testing.T, coll *mongo.Collection) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	defer cur.Close(ctx)
	names := map[string]bool{}
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err == nil {
			if n, ok := idx["name"].(string); ok {
				names[n] = true
			}
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}

	names := indexNames(t, db.Collection(models.CollMembers))
	for _, want := range []string{"uniq_members_email", "uniq_members_contact", "idx_members_club_nameci_id"} {
		if !names[want] {
			t.Errorf("expected index %q on members", want)
		}
	}
	if !indexNames(t, db.Collection(models.CollExpenses))["idx_expenses_club_created"] {
		t.Error("expected club index on expenses")
	}
}

func TestEnsureAll_EmptyEmailsDoNotCollide(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	members := db.Collection(models.CollMembers)
	for _, contact := range []string{"9830000001", "9830000002"} {
		if _, err := members.InsertOne(ctx, bson.M{"name": "x", "email": "", "contact": contact}); err != nil {
			t.Fatalf("insert with empty email: %v", err)
		}
	}
	if _, err := members.InsertOne(ctx, bson.M{"name": "y", "contact": "9830000001"}); !mongo.IsDuplicateKeyError(err) {
		t.Errorf("expected duplicate contact to fail, got %v", err)
	}
}
