// Package storage opens the inputs named on the command line.  An input
// is a local path, "-" for standard input, or an http, https, or s3 URI.
package storage

import (
	"context"
	"errors"
	"io"

	"github.com/brimdata/zavro/zqe"
)

// Reader is an opened input.  Streams such as standard input and http
// bodies fail ReadAt with ErrNotSupported.
type Reader interface {
	io.Reader
	io.ReaderAt
	io.Closer
}

// Sizer is implemented by a Reader that knows its stored length.
type Sizer interface {
	Size() (int64, error)
}

var ErrNotSupported = errors.New("storage: operation not supported on this input")

// Engine opens inputs by URI.
type Engine interface {
	Get(context.Context, *URI) (Reader, error)
	Size(context.Context, *URI) (int64, error)
}

// MaxReadFile is the default limit for ReadFile.  Schema documents are
// the only inputs read whole.
const MaxReadFile = 16 << 20

var allSchemes = []Scheme{FileScheme, StdioScheme, HTTPScheme, HTTPSScheme, S3Scheme}

// NewEngine returns a Router that allows schemes, or every known scheme
// when schemes is empty.
func NewEngine(schemes ...Scheme) *Router {
	if len(schemes) == 0 {
		schemes = allSchemes
	}
	router := NewRouter()
	for _, s := range schemes {
		router.Enable(s)
	}
	return router
}

// NewLocalEngine returns an engine for command-line use.
func NewLocalEngine() *Router {
	return NewEngine()
}

// Open parses path as a URI and opens it with engine.
func Open(ctx context.Context, engine Engine, path string) (Reader, error) {
	u, err := ParseURI(path)
	if err != nil {
		return nil, err
	}
	return engine.Get(ctx, u)
}

// ReadFile returns the contents of path.  An input longer than limit
// bytes is a zqe.Invalid error.
func ReadFile(ctx context.Context, engine Engine, path string, limit int64) ([]byte, error) {
	r, err := Open(ctx, engine, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, zqe.E(zqe.Invalid, "%s: larger than %d bytes", path, limit)
	}
	return b, nil
}

// Size returns the stored length of r, or ErrNotSupported.
func Size(r Reader) (int64, error) {
	if sizer, ok := r.(Sizer); ok {
		return sizer.Size()
	}
	return 0, ErrNotSupported
}
