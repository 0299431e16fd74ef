//go:build !nosnappy

package codec

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/brimdata/zavro/zqe"
	"github.com/golang/snappy"
)

func init() {
	register(Snappy{})
}

// Snappy is a raw snappy block followed by the big-endian CRC-32 (IEEE) of
// the uncompressed data.
type Snappy struct{}

func (Snappy) Name() string { return "snappy" }

func (Snappy) Decompress(src []byte, limit int) ([]byte, error) {
	if len(src) < 4 {
		return nil, zqe.E(zqe.Codec, "snappy: block of %d bytes too short for checksum", len(src))
	}
	n := len(src) - 4
	size, err := snappy.DecodedLen(src[:n])
	if err != nil {
		return nil, corrupt("snappy", err)
	}
	if size > limit {
		return nil, tooLarge("snappy", limit)
	}
	b, err := snappy.Decode(nil, src[:n])
	if err != nil {
		return nil, corrupt("snappy", err)
	}
	if sum, expected := crc32.ChecksumIEEE(b), binary.BigEndian.Uint32(src[n:]); sum != expected {
		return nil, zqe.E(zqe.Codec, "snappy: checksum mismatch (%08x != %08x)", sum, expected)
	}
	return b, nil
}
