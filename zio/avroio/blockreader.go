package avroio

import (
	"io"

	"github.com/brimdata/zavro"
)

// BlockReader yields the Blocks of a container file in file order.  Each
// block's sync marker is verified before the block is returned.
type BlockReader struct {
	parser *parser
	err    error
}

func NewBlockReader(r io.Reader, opts ReaderOpts) (*BlockReader, error) {
	p, err := newParser(r, opts)
	if err != nil {
		return nil, err
	}
	return &BlockReader{parser: p}, nil
}

func (b *BlockReader) Header() *Header             { return b.parser.header }
func (b *BlockReader) Metadata() map[string]string { return b.parser.header.Metadata }
func (b *BlockReader) Codec() string               { return b.parser.header.Codec }
func (b *BlockReader) WriterSchema() zavro.Type    { return b.parser.header.Schema }
func (b *BlockReader) ReaderSchema() zavro.Type    { return b.parser.opts.ReaderSchema }
func (b *BlockReader) Stats() Stats                { return b.parser.stats.Copy() }
func (b *BlockReader) Sync() [SyncSize]byte        { return b.parser.header.Sync }

// Next returns the next Block or nil at end of stream.  After an error,
// Next returns the same error.
func (b *BlockReader) Next() (*Block, error) {
	if b.err != nil {
		return nil, b.err
	}
	blk, err := b.next()
	if err != nil {
		b.err = err
	}
	return blk, err
}

func (b *BlockReader) next() (*Block, error) {
	p := b.parser
	raw, err := p.readBlock()
	if raw == nil || err != nil {
		return nil, err
	}
	if err := p.readSync(raw); err != nil {
		return nil, err
	}
	bytes, err := p.decompress(raw)
	if err != nil {
		return nil, err
	}
	return p.newBlock(raw, bytes), nil
}

func (p *parser) newBlock(raw *rawBlock, bytes []byte) *Block {
	return &Block{
		Bytes:        bytes,
		NumRecords:   raw.count,
		Codec:        p.header.Codec,
		WriterSchema: p.header.Schema,
		ReaderSchema: p.opts.ReaderSchema,
		Offset:       raw.offset,
		Size:         raw.size,
		Opts:         p.dopts,
	}
}
