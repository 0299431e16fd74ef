// Package avroio reads Avro object container files and schemaless Avro
// values.
//
// A container file is a header (magic, metadata map, sync marker) followed
// by blocks, each holding a record count, a codec-compressed payload of that
// many records, and a copy of the sync marker.  Reader decodes records in
// file order.  BlockReader yields undecoded Blocks so that callers can
// decode them independently, and Scanner does that with a pool of workers.
package avroio

import (
	"errors"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/datum"
	"go.uber.org/zap"
)

const (
	SyncSize = 16

	DefaultMaxBlockSize = 256 * 1024 * 1024
	// DefaultMaxDecompressedSize bounds a decompressed block payload.
	DefaultMaxDecompressedSize = 1024 * 1024 * 1024
	// ReadSize is the initial size of the read buffer.
	ReadSize = 512 * 1024
)

var Magic = []byte{'O', 'b', 'j', 1}

var (
	ErrNotAvro      = errors.New("not an avro file")
	ErrSyncMismatch = errors.New("expected sync marker not found")
)

type ReaderOpts struct {
	// ReaderSchema, if non-nil, is the schema records are resolved to.
	ReaderSchema     zavro.Type
	ReturnRecordName bool
	Unicode          datum.UnicodeMode
	// MaxBlockSize bounds the compressed size of a block and the size
	// of the header.  Zero means DefaultMaxBlockSize.
	MaxBlockSize int
	// MaxDecompressedSize bounds the decompressed size of a block.  Zero
	// means DefaultMaxDecompressedSize, or MaxBlockSize if that is larger.
	MaxDecompressedSize int
	// Schemas caches parsed writer schemas.  Nil means DefaultSchemaCache.
	Schemas *SchemaCache
	Metrics *Metrics
	Logger  *zap.Logger
}

// datumOpts returns the decoding options for one file.  Its blocks share
// cache.
func (o ReaderOpts) datumOpts(cache *datum.Cache) datum.Options {
	return datum.Options{
		ReturnRecordName: o.ReturnRecordName,
		Unicode:          o.Unicode,
		Cache:            cache,
	}
}

func (o ReaderOpts) withDefaults() ReaderOpts {
	if o.MaxBlockSize <= 0 {
		o.MaxBlockSize = DefaultMaxBlockSize
	}
	if o.MaxDecompressedSize <= 0 {
		o.MaxDecompressedSize = max(DefaultMaxDecompressedSize, o.MaxBlockSize)
	}
	if o.Schemas == nil {
		o.Schemas = DefaultSchemaCache
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
