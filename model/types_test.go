package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadFromBytes(t *testing.T) {
	t.Run("exact size", func(t *testing.T) {
		b := make([]byte, PayloadSize)
		for i := range b {
			b[i] = byte(i)
		}
		p, err := PayloadFromBytes(b)
		require.NoError(t, err)
		assert.Equal(t, b, p[:])
	})

	t.Run("short input zero-padded", func(t *testing.T) {
		p, err := PayloadFromBytes([]byte{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, byte(1), p[0])
		assert.Equal(t, byte(3), p[2])
		assert.Equal(t, byte(0), p[3])
		assert.Equal(t, byte(0), p[PayloadSize-1])
	})

	t.Run("oversized input rejected", func(t *testing.T) {
		_, err := PayloadFromBytes(make([]byte, PayloadSize+1))
		assert.Error(t, err)
	})
}

func TestNodeChildLinks(t *testing.T) {
	var n Node

	assert.Equal(t, 0, n.ChildCount())
	_, ok := n.Child(SideLeft)
	assert.False(t, ok)

	n.SetChild(SideLeft, 7)
	n.SetChild(SideRight, 9)
	assert.Equal(t, 2, n.ChildCount())

	addr, ok := n.Child(SideLeft)
	assert.True(t, ok)
	assert.Equal(t, Address(7), addr)

	addr, ok = n.Child(SideRight)
	assert.True(t, ok)
	assert.Equal(t, Address(9), addr)

	n.ClearChild(SideLeft)
	assert.Equal(t, 1, n.ChildCount())
	addr, ok = n.Child(SideLeft)
	assert.False(t, ok)
	assert.Equal(t, Address(0), addr)
}

func TestSideString(t *testing.T) {
	assert.Equal(t, "left", SideLeft.String())
	assert.Equal(t, "right", SideRight.String())
}
