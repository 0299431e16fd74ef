package avroio

import (
	"io"

	"github.com/brimdata/zavro"
)

// Reader decodes the records of a container file in file order.  It
// implements zio.Reader.
type Reader struct {
	parser  *parser
	raw     *rawBlock
	records *BlockRecords
	err     error
}

// NewReader reads the header of the container file in r.  It fails if r
// is not a container file or names a codec outside the known set.
func NewReader(r io.Reader, opts ReaderOpts) (*Reader, error) {
	p, err := newParser(r, opts)
	if err != nil {
		return nil, err
	}
	return &Reader{parser: p}, nil
}

func (r *Reader) Header() *Header             { return r.parser.header }
func (r *Reader) Metadata() map[string]string { return r.parser.header.Metadata }
func (r *Reader) Codec() string               { return r.parser.header.Codec }
func (r *Reader) WriterSchema() zavro.Type    { return r.parser.header.Schema }
func (r *Reader) ReaderSchema() zavro.Type    { return r.parser.opts.ReaderSchema }
func (r *Reader) Stats() Stats                { return r.parser.stats.Copy() }
func (r *Reader) Sync() [SyncSize]byte        { return r.parser.header.Sync }

// Read returns the next record or nil at end of stream.  A block's sync
// marker is verified after its last record has been returned, so a
// corrupt marker is reported at the block boundary.  After an error, Read
// returns the same error.
func (r *Reader) Read() (*zavro.Value, error) {
	if r.err != nil {
		return nil, r.err
	}
	val, err := r.read()
	if err != nil {
		r.err = err
	}
	return val, err
}

func (r *Reader) read() (*zavro.Value, error) {
	p := r.parser
	for {
		if r.records != nil {
			val, err := r.records.Read()
			if val != nil || err != nil {
				if val != nil {
					p.stats.Add(Stats{RecordsRead: 1})
					p.opts.Metrics.recordsRead(1)
				}
				return val, err
			}
			r.records = nil
			if err := p.readSync(r.raw); err != nil {
				return nil, err
			}
		}
		raw, err := p.readBlock()
		if raw == nil || err != nil {
			return nil, err
		}
		bytes, err := p.decompress(raw)
		if err != nil {
			return nil, err
		}
		r.raw = raw
		r.records = p.newBlock(raw, bytes).Reader()
	}
}
