package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jortegar/agroscout/internal/store"
)

func TestMemoryStoreMissingKey(t *testing.T) {
	s := store.NewMemoryStore()

	_, err := s.Load(context.Background(), "grid:incidence")
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "grid:incidence", []byte(`{"rows":[]}`)))
	got, err := s.Load(ctx, "grid:incidence")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"rows":[]}`), got)

	// Overwrites replace the payload wholesale.
	require.NoError(t, s.Save(ctx, "grid:incidence", []byte(`{}`)))
	got, err = s.Load(ctx, "grid:incidence")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), got)
}

func TestMemoryStoreCopiesPayloads(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	in := []byte("original")
	require.NoError(t, s.Save(ctx, "k", in))
	in[0] = 'X'

	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	// Mutating a loaded payload must not leak back into the store.
	got[0] = 'Y'
	again, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}
