package storage

import (
	"context"
	"io"
	"os"
)

// StdioEngine reads standard input, which may be opened once.
type StdioEngine struct {
	stdin io.Reader
}

var _ Engine = (*StdioEngine)(nil)

func NewStdio() *StdioEngine {
	return &StdioEngine{stdin: os.Stdin}
}

func (s *StdioEngine) Get(context.Context, *URI) (Reader, error) {
	return &stdinReader{s.stdin}, nil
}

func (*StdioEngine) Size(context.Context, *URI) (int64, error) {
	return 0, ErrNotSupported
}

type stdinReader struct {
	io.Reader
}

func (*stdinReader) ReadAt([]byte, int64) (int, error) { return 0, ErrNotSupported }

// Close leaves standard input open.
func (*stdinReader) Close() error { return nil }
