// Package zio defines the record streams that connect readers of Avro
// data to writers of its decoded form.
package zio

import (
	"context"
	"io"

	"github.com/brimdata/zavro"
	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
)

// Reader is a stream of decoded records.  Read returns the next record,
// or a nil record and nil error once the stream is exhausted.  It never
// returns io.EOF and never returns a record together with an error.
type Reader interface {
	Read() (*zavro.Value, error)
}

type Writer interface {
	Write(*zavro.Value) error
}

type WriteCloser interface {
	Writer
	io.Closer
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser wraps w so that closing it leaves w open.  Output writers use
// it for stdout.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

// ConcatReader reads each of readers to the end in turn.  The first
// error stops the stream.
func ConcatReader(readers ...Reader) Reader {
	if len(readers) == 1 {
		return readers[0]
	}
	return &concatReader{slices.Clone(readers)}
}

type concatReader struct {
	readers []Reader
}

func (c *concatReader) Read() (*zavro.Value, error) {
	for len(c.readers) > 0 {
		val, err := c.readers[0].Read()
		if val != nil || err != nil {
			return val, err
		}
		c.readers = c.readers[1:]
	}
	return nil, nil
}

// Copy writes every record of src to dst.
func Copy(dst Writer, src Reader) error {
	return CopyWithContext(context.Background(), dst, src)
}

// CopyWithContext is Copy, checking ctx between records.
func CopyWithContext(ctx context.Context, dst Writer, src Reader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		val, err := src.Read()
		if err != nil || val == nil {
			return err
		}
		if err := dst.Write(val); err != nil {
			return err
		}
	}
}

// CloseReaders closes each of readers that is an io.Closer.  All are
// closed even if some fail, and the failures are combined.
func CloseReaders(readers []Reader) error {
	var err error
	for _, reader := range readers {
		if closer, ok := reader.(io.Closer); ok {
			err = multierr.Append(err, closer.Close())
		}
	}
	return err
}
