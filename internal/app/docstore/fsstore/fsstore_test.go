package fsstore_test

import (
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/docstore/fsstore"
	"github.com/dalemusser/pujahub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newStore connects to the Firestore emulator. Each test writes to its own
// collection names so runs do not see each other's documents.
func newStore(t *testing.T) *fsstore.Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping Firestore test")
	}
	client, err := firestore.NewClient(t.Context(), "pujahub-test")
	require.NoError(t, err)
	s := fsstore.New(client, zap.NewNop())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func collection(base string) string {
	return fmt.Sprintf("%s_%d", base, time.Now().UnixNano())
}

func TestCRUD(t *testing.T) {
	s := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	name := collection("Tasks")

	id, err := s.Add(ctx, name, docstore.Fields{"title": "Book pandal", "completed": false})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, name, id, docstore.Fields{"completed": true}))
	found, err := s.Find(ctx, name, docstore.FieldID, id)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].Bool("completed"))
	assert.Equal(t, "Book pandal", found[0].String("title"))

	require.NoError(t, s.Delete(ctx, name, id))
	recs, err := s.List(ctx, name)
	require.NoError(t, err)
	assert.Empty(t, recs)

	assert.ErrorIs(t, s.Update(ctx, name, id, docstore.Fields{"x": 1}), docstore.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, name, id), docstore.ErrNotFound)
}

func TestSubscribe_ReplaysThenFollows(t *testing.T) {
	s := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	name := collection("Expenses")

	_, err := s.Add(ctx, name, docstore.Fields{"category": "Decoration", "amount": 100.0})
	require.NoError(t, err)

	sub, err := s.Subscribe(ctx, name)
	require.NoError(t, err)
	defer sub.Cancel()

	next := func() []docstore.Record {
		select {
		case recs := <-sub.C():
			return recs
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for snapshot")
		}
		return nil
	}
	require.Len(t, next(), 1)

	_, err = s.Add(ctx, name, docstore.Fields{"category": "Lights", "amount": 50.0})
	require.NoError(t, err)
	recs := next()
	require.Len(t, recs, 2)
	assert.Equal(t, "Lights", recs[0].String("category"))
}
