// Package anyio opens Avro container files from any storage location.
package anyio

import (
	"context"
	"io"

	"github.com/brimdata/zavro/pkg/storage"
	"github.com/brimdata/zavro/zio"
	"github.com/brimdata/zavro/zio/avroio"
	"go.uber.org/multierr"
)

type ReaderOpts struct {
	// Threads is the number of goroutines decoding blocks.  With fewer
	// than two, blocks are decoded on the calling goroutine.
	Threads int
	Avro    avroio.ReaderOpts
}

// Stream is an opened input with gzip compression removed.  Size is the
// stored size of the input or zero if the engine cannot tell.
type Stream struct {
	io.Reader
	io.Closer
	Path string
	Size int64
}

// OpenStream uses engine to open path for reading.  path is a local file
// path, "-", or a URI whose scheme is understood by engine.
func OpenStream(ctx context.Context, engine storage.Engine, path string) (*Stream, error) {
	rc, err := storage.Open(ctx, engine, path)
	if err != nil {
		return nil, err
	}
	r, err := GzipReader(rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	size, _ := storage.Size(rc)
	return &Stream{Reader: r, Closer: rc, Path: path, Size: size}, nil
}

// File is a zio.Reader of the records of one container file.  Close
// releases the underlying input.
type File struct {
	zio.Reader
	Path   string
	Header *avroio.Header
	// Size is the stored size of the input when known.
	Size    int64
	stats   func() avroio.Stats
	closers []io.Closer
}

func Open(ctx context.Context, engine storage.Engine, path string, opts ReaderOpts) (*File, error) {
	s, err := OpenStream(ctx, engine, path)
	if err != nil {
		return nil, err
	}
	f, err := NewFile(ctx, s, path, opts)
	if err != nil {
		s.Close()
		return nil, err
	}
	f.Size = s.Size
	return f, nil
}

// NewFile reads the header of the container file in rc.  Closing the File
// closes rc.
func NewFile(ctx context.Context, rc io.ReadCloser, path string, opts ReaderOpts) (*File, error) {
	if opts.Threads > 1 {
		s, err := avroio.NewScanner(ctx, rc, opts.Threads, opts.Avro)
		if err != nil {
			return nil, err
		}
		return &File{
			Reader:  s,
			Path:    path,
			Header:  s.Header(),
			stats:   s.Stats,
			closers: []io.Closer{s, rc},
		}, nil
	}
	r, err := avroio.NewReader(rc, opts.Avro)
	if err != nil {
		return nil, err
	}
	return &File{
		Reader:  r,
		Path:    path,
		Header:  r.Header(),
		stats:   r.Stats,
		closers: []io.Closer{rc},
	}, nil
}

func (f *File) Stats() avroio.Stats {
	return f.stats()
}

// Close stops any decoding goroutines before closing the input.
func (f *File) Close() error {
	var err error
	for _, c := range f.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
