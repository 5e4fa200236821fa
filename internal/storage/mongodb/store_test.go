package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirosfoundation/go-chfiling/pkg/state"
)

// testURI returns the MongoDB URI for integration tests, skipping when unset
func testURI(t *testing.T) string {
	t.Helper()
	uri := os.Getenv("CHFILING_TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("CHFILING_TEST_MONGODB_URI not set")
	}
	return uri
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewStore(ctx, &Config{
		URI:      testURI(t),
		Database: "chfiling_test",
		Key:      "test-" + uuid.NewString(),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = s.counters.DeleteOne(ctx, bson.M{"_id": s.key})
		_ = s.Close(ctx)
	})
	return s
}

func TestNewStore_Defaults(t *testing.T) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	s := newStore(client, &Config{Database: "db"})
	assert.Equal(t, DefaultKey, s.Key())
	assert.Equal(t, DefaultCollection, s.counters.Name())
	assert.Equal(t, "db", s.counters.Database().Name())
}

func TestStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, state.ErrStateNotFound)
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, state.Counters{TransactionID: 3, SubmissionID: 1}))
	require.NoError(t, s.Save(ctx, state.Counters{TransactionID: 4, SubmissionID: 2}))

	c, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.Counters{TransactionID: 4, SubmissionID: 2}, c)
}

func TestStore_CorruptDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.counters.InsertOne(ctx, bson.M{"_id": s.key, "transaction_id": "seven"})
	require.NoError(t, err)

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, state.ErrStateCorrupt)
}

func TestStore_WithCounterStore(t *testing.T) {
	backend := newTestStore(t)
	ctx := context.Background()
	cfg := state.NewConfig(map[string]any{"presenter-id": "P"})

	st, err := state.New(ctx, cfg, backend)
	require.NoError(t, err)
	_, err = st.NextTransactionID(ctx)
	require.NoError(t, err)
	id, err := st.NextSubmissionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "S00001", id)

	reopened, err := state.New(ctx, cfg, backend)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.CurrentTransactionID())
	assert.Equal(t, 1, reopened.CurrentSubmissionID())
}
