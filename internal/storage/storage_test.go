package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-chfiling/pkg/state"
)

func TestIsMongoURI(t *testing.T) {
	assert.True(t, IsMongoURI("mongodb://localhost:27017/chfiling"))
	assert.True(t, IsMongoURI("mongodb+srv://cluster.example.net"))
	assert.False(t, IsMongoURI("state.json"))
	assert.False(t, IsMongoURI("/var/lib/chfiling/mongodb.json"))
}

func TestOpen_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := Open(ctx, path, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))
	defer s.Close(ctx)

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, state.ErrStateNotFound)

	require.NoError(t, s.Save(ctx, state.Counters{TransactionID: 2, SubmissionID: 1}))
	c, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, c.TransactionID)
}

func TestOpen_EmptyLocation(t *testing.T) {
	_, err := Open(context.Background(), "", Options{})
	assert.Error(t, err)
}
