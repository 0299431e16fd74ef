//go:build !nolz4

package codec

import (
	"encoding/binary"

	"github.com/brimdata/zavro/zqe"
	"github.com/pierrec/lz4/v4"
)

func init() {
	register(LZ4{})
}

// LZ4 is an lz4 block prefixed with its uncompressed size as a
// little-endian uint32.
type LZ4 struct{}

func (LZ4) Name() string { return "lz4" }

// maxExpansion is the largest ratio of uncompressed to compressed size
// an lz4 block can have.
const maxExpansion = 255

func (LZ4) Decompress(src []byte, limit int) ([]byte, error) {
	if len(src) < 4 {
		return nil, zqe.E(zqe.Codec, "lz4: block of %d bytes too short for size prefix", len(src))
	}
	size := uint64(binary.LittleEndian.Uint32(src))
	if size > uint64(limit) {
		return nil, tooLarge("lz4", limit)
	}
	if size > maxExpansion*uint64(len(src)-4) {
		return nil, zqe.E(zqe.Codec, "lz4: uncompressed size %d impossible for %d byte block", size, len(src)-4)
	}
	b := make([]byte, size)
	n, err := lz4.UncompressBlock(src[4:], b)
	if err != nil {
		return nil, corrupt("lz4", err)
	}
	if n != len(b) {
		return nil, zqe.E(zqe.Codec, "lz4: got %d uncompressed bytes but expected %d", n, len(b))
	}
	return b, nil
}
