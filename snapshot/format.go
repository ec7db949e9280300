package snapshot

import (
	"encoding/binary"
	"errors"
)

const (
	// MagicNumber identifies treekv snapshot files (ASCII: "TKV0").
	MagicNumber = 0x544B5630
	// Version is the current snapshot format version.
	Version = 1

	headerSize = 64
)

var (
	// ErrInvalidMagic is returned when a blob is not a treekv snapshot.
	ErrInvalidMagic = errors.New("snapshot: invalid magic number")
	// ErrInvalidVersion is returned for snapshots from an unknown format version.
	ErrInvalidVersion = errors.New("snapshot: unsupported version")
	// ErrChecksum is returned when the body fails CRC32 verification.
	ErrChecksum = errors.New("snapshot: checksum mismatch")
	// ErrTruncated is returned when the blob is shorter than its header claims.
	ErrTruncated = errors.New("snapshot: truncated body")
)

// fileHeader is the fixed 64-byte header at the start of every snapshot.
//
// Layout (little-endian):
//
//	offset  0: magic       uint32
//	offset  4: version     uint32
//	offset  8: compression uint8
//	offset  9: ready       uint8
//	offset 10: reserved    [2]byte
//	offset 12: nodeCount   uint64
//	offset 20: frontier    uint64
//	offset 28: root        uint64
//	offset 36: bodySize    uint64  (compressed body bytes)
//	offset 44: rawSize     uint64  (uncompressed body bytes)
//	offset 52: checksum    uint32  (CRC32/IEEE of the compressed body)
//	offset 56: reserved    [8]byte
type fileHeader struct {
	compression CompressionType
	ready       bool
	nodeCount   uint64
	frontier    uint64
	root        uint64
	bodySize    uint64
	rawSize     uint64
	checksum    uint32
}

func (h *fileHeader) encode() [headerSize]byte {
	var b [headerSize]byte
	binary.LittleEndian.PutUint32(b[0:4], MagicNumber)
	binary.LittleEndian.PutUint32(b[4:8], Version)
	b[8] = byte(h.compression)
	if h.ready {
		b[9] = 1
	}
	binary.LittleEndian.PutUint64(b[12:20], h.nodeCount)
	binary.LittleEndian.PutUint64(b[20:28], h.frontier)
	binary.LittleEndian.PutUint64(b[28:36], h.root)
	binary.LittleEndian.PutUint64(b[36:44], h.bodySize)
	binary.LittleEndian.PutUint64(b[44:52], h.rawSize)
	binary.LittleEndian.PutUint32(b[52:56], h.checksum)
	return b
}

func decodeHeader(b []byte) (fileHeader, error) {
	if len(b) < headerSize {
		return fileHeader{}, ErrTruncated
	}
	if binary.LittleEndian.Uint32(b[0:4]) != MagicNumber {
		return fileHeader{}, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint32(b[4:8]) != Version {
		return fileHeader{}, ErrInvalidVersion
	}
	return fileHeader{
		compression: CompressionType(b[8]),
		ready:       b[9] == 1,
		nodeCount:   binary.LittleEndian.Uint64(b[12:20]),
		frontier:    binary.LittleEndian.Uint64(b[20:28]),
		root:        binary.LittleEndian.Uint64(b[28:36]),
		bodySize:    binary.LittleEndian.Uint64(b[36:44]),
		rawSize:     binary.LittleEndian.Uint64(b[44:52]),
		checksum:    binary.LittleEndian.Uint32(b[52:56]),
	}, nil
}
