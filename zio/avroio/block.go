package avroio

import (
	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/binio"
	"github.com/brimdata/zavro/datum"
	"github.com/brimdata/zavro/zqe"
)

// Block is one block of a container file with its payload decompressed but
// not decoded.  A Block holds everything needed to decode it, so Blocks
// from one stream may be decoded concurrently.  The schemas are shared with
// the BlockReader that produced the Block.
type Block struct {
	Bytes        []byte
	NumRecords   int64
	Codec        string
	WriterSchema zavro.Type
	ReaderSchema zavro.Type
	// Offset is the position of the block in the stream and Size is its
	// length including the sync marker.
	Offset int64
	Size   int64
	Opts   datum.Options
}

// Reader returns an iterator over the records of b.  Each call starts a
// new pass from the beginning of the block, so a Block may be decoded any
// number of times with the same result.
func (b *Block) Reader() *BlockRecords {
	return &BlockRecords{
		block:     b,
		dec:       binio.NewDecoder(b.Bytes),
		remaining: b.NumRecords,
	}
}

// Decode returns all records of b.
func (b *Block) Decode() ([]any, error) {
	r := b.Reader()
	vals := make([]any, 0, b.NumRecords)
	for {
		val, err := r.Read()
		if val == nil || err != nil {
			return vals, err
		}
		vals = append(vals, val.Data)
	}
}

// BlockRecords decodes the records of one Block on demand.
type BlockRecords struct {
	block     *Block
	dec       *binio.Decoder
	remaining int64
}

// Read returns the next record or nil at the end of the block.  A decoding
// error is returned only when the record it belongs to is read.
func (r *BlockRecords) Read() (*zavro.Value, error) {
	if r.remaining <= 0 {
		return nil, nil
	}
	v, err := datum.Read(r.dec, r.block.WriterSchema, r.block.ReaderSchema, r.block.Opts)
	if err != nil {
		r.remaining = 0
		return nil, zqe.E("record %d of block at offset %d: %w", r.block.NumRecords-r.remaining, r.block.Offset, err)
	}
	r.remaining--
	return &zavro.Value{Type: r.block.schema(), Data: v}, nil
}

func (b *Block) schema() zavro.Type {
	if b.ReaderSchema != nil {
		return b.ReaderSchema
	}
	return b.WriterSchema
}
