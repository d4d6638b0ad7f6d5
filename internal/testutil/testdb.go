package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/dalemusser/pujahub/internal/app/docstore/memstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestContext returns a context with a timeout suitable for one test step.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// NewMemStore returns an empty in-memory document store.
func NewMemStore(t *testing.T) *memstore.Store {
	t.Helper()
	return memstore.New()
}

// SetupTestDB connects to PUJAHUB_TEST_MONGO_URI and returns a fresh
// database that is dropped when the test ends. The test is skipped when the
// variable is unset or the server is unreachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("PUJAHUB_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("PUJAHUB_TEST_MONGO_URI not set; skipping MongoDB test")
	}

	ctx, cancel := TestContext()
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongo connect: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("mongo ping: %v", err)
	}

	db := client.Database(fmt.Sprintf("pujahub_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
