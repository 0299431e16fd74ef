package avroio

import (
	"io"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/binio"
	"github.com/brimdata/zavro/datum"
	"github.com/brimdata/zavro/pkg/peeker"
	"github.com/brimdata/zavro/zqe"
)

// SchemalessReader decodes exactly one value written with the writer
// schema from r, which carries no header or framing.  If reader is
// non-nil, the value is resolved to it.  SchemalessReader reads ahead of
// the value, so r should hold nothing else that the caller needs.
func SchemalessReader(r io.Reader, writer, reader zavro.Type, opts datum.Options) (any, error) {
	p := peeker.NewReader(r, 4096, DefaultMaxBlockSize)
	return datum.Read(binio.NewStreamDecoder(p), writer, reader, opts)
}

// Decode decodes one value written with the writer schema from the start
// of b.
func Decode(b []byte, writer, reader zavro.Type, opts datum.Options) (any, error) {
	return datum.Read(binio.NewDecoder(b), writer, reader, opts)
}

// DatumReader is a zio.Reader of back-to-back values, each written with the
// writer schema, as found in streams of bare datums with no container
// framing.
type DatumReader struct {
	peeker *peeker.Reader
	dec    *binio.Decoder
	writer zavro.Type
	reader zavro.Type
	opts   datum.Options
	n      int
	err    error
}

func NewDatumReader(r io.Reader, writer, reader zavro.Type, opts datum.Options) *DatumReader {
	if opts.Cache == nil {
		opts.Cache = datum.NewCache(0)
	}
	p := peeker.NewReader(r, 4096, DefaultMaxBlockSize)
	return &DatumReader{
		peeker: p,
		dec:    binio.NewStreamDecoder(p),
		writer: writer,
		reader: reader,
		opts:   opts,
	}
}

// Read returns the next value or nil when the input ends between values.
func (d *DatumReader) Read() (*zavro.Value, error) {
	if d.err != nil {
		return nil, d.err
	}
	if _, err := d.peeker.Peek(1); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		d.err = err
		return nil, err
	}
	pos := d.dec.Pos()
	v, err := datum.Read(d.dec, d.writer, d.reader, d.opts)
	if err == nil && d.dec.Pos() == pos {
		err = zqe.E(zqe.Invalid, "schema %s encodes values in zero bytes", d.writer)
	}
	if err != nil {
		d.err = zqe.E("datum %d at offset %d: %w", d.n, pos, err)
		return nil, d.err
	}
	d.n++
	typ := d.reader
	if typ == nil {
		typ = d.writer
	}
	return &zavro.Value{Type: typ, Data: v}, nil
}
