package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treekv/treekv/model"
)

func TestMmapStoreReadWrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nodes.tkv")

	s, err := NewMmap(path, 16)
	require.NoError(t, err)
	defer s.Close()

	n := model.Node{Token: 99, Right: 5, HasRight: true}
	copy(n.Payload[:], "payload")
	require.NoError(t, s.WriteNode(ctx, 3, n))

	got, err := s.ReadNode(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, n, got)
	assert.Equal(t, uint64(16), s.Slots())
}

func TestMmapStoreFixedCapacity(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nodes.tkv")

	s, err := NewMmap(path, 4)
	require.NoError(t, err)
	defer s.Close()

	assert.ErrorIs(t, s.WriteNode(ctx, 4, model.Node{}), ErrOutOfRange)
	_, err = s.ReadNode(ctx, 4)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMmapStoreZeroSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.tkv")
	_, err := NewMmap(path, 0)
	assert.Error(t, err)
}

func TestMmapStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nodes.tkv")

	s, err := NewMmap(path, 8)
	require.NoError(t, err)
	require.NoError(t, s.WriteNode(ctx, 2, model.Node{Token: 1234}))
	require.NoError(t, s.Sync())
	require.NoError(t, s.Close())

	s2, err := NewMmap(path, 8)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.ReadNode(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.Token(1234), got.Token)
}

func TestMmapStoreClosed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nodes.tkv")

	s, err := NewMmap(path, 4)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close()) // idempotent

	_, err = s.ReadNode(ctx, 0)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.WriteNode(ctx, 0, model.Node{}), ErrClosed)
	assert.ErrorIs(t, s.Sync(), ErrClosed)
}
