//go:build !nozstd

package codec

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/zstd"
)

func init() {
	register(Zstandard{})
}

// maxWindow bounds the window a frame may ask the decoder to allocate.
const maxWindow = 1 << 27

// decoderPool reuses zstd decoders, which are costly to create.
var decoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxWindow(maxWindow),
		)
		if err != nil {
			panic("failed to create zstd decoder: " + err.Error())
		}
		return dec
	},
}

type Zstandard struct{}

func (Zstandard) Name() string { return "zstandard" }

// Decompress streams the frames so that a frame declaring a huge content
// size costs no more than limit.
func (Zstandard) Decompress(src []byte, limit int) ([]byte, error) {
	dec := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(dec)
	if err := dec.Reset(bytes.NewReader(src)); err != nil {
		return nil, corrupt("zstandard", err)
	}
	return readAll("zstandard", dec, limit)
}
