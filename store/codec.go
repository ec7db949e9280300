package store

import (
	"encoding/binary"

	"github.com/treekv/treekv/model"
)

// RecordSize is the fixed on-store size of one encoded node.
//
// Layout (little-endian):
//
//	offset  0: flags   uint8
//	offset  1: reserved [7]byte
//	offset  8: token   uint64
//	offset 16: payload [16]byte
//	offset 32: left    uint64
//	offset 40: right   uint64
//	offset 48: parent  uint64
//	offset 56: reserved [8]byte
//
// A link address field is meaningful only when its presence flag is set.
const RecordSize = 64

const (
	flagHasLeft   = 1 << 0
	flagHasRight  = 1 << 1
	flagHasParent = 1 << 2
)

// EncodeNode writes n into dst, which must be at least RecordSize bytes.
func EncodeNode(dst []byte, n *model.Node) {
	_ = dst[RecordSize-1] // bounds hint

	var flags byte
	if n.HasLeft {
		flags |= flagHasLeft
	}
	if n.HasRight {
		flags |= flagHasRight
	}
	if n.HasParent {
		flags |= flagHasParent
	}

	dst[0] = flags
	for i := 1; i < 8; i++ {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint64(dst[8:16], uint64(n.Token))
	copy(dst[16:32], n.Payload[:])
	binary.LittleEndian.PutUint64(dst[32:40], uint64(n.Left))
	binary.LittleEndian.PutUint64(dst[40:48], uint64(n.Right))
	binary.LittleEndian.PutUint64(dst[48:56], uint64(n.Parent))
	for i := 56; i < RecordSize; i++ {
		dst[i] = 0
	}
}

// DecodeNode reads a node from src, which must be at least RecordSize bytes.
func DecodeNode(src []byte) model.Node {
	_ = src[RecordSize-1] // bounds hint

	flags := src[0]
	n := model.Node{
		Token:     model.Token(binary.LittleEndian.Uint64(src[8:16])),
		Left:      model.Address(binary.LittleEndian.Uint64(src[32:40])),
		Right:     model.Address(binary.LittleEndian.Uint64(src[40:48])),
		Parent:    model.Address(binary.LittleEndian.Uint64(src[48:56])),
		HasLeft:   flags&flagHasLeft != 0,
		HasRight:  flags&flagHasRight != 0,
		HasParent: flags&flagHasParent != 0,
	}
	copy(n.Payload[:], src[16:32])

	// Absent links decode to zeroed addresses regardless of stored bytes.
	if !n.HasLeft {
		n.Left = 0
	}
	if !n.HasRight {
		n.Right = 0
	}
	if !n.HasParent {
		n.Parent = 0
	}
	return n
}
