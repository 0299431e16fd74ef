package zio_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/zio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type sliceReader struct {
	vals   []*zavro.Value
	err    error
	closed error
}

func newReader(data ...any) *sliceReader {
	r := &sliceReader{}
	for _, d := range data {
		r.vals = append(r.vals, &zavro.Value{Type: zavro.TypeLong, Data: d})
	}
	return r
}

func (s *sliceReader) Read() (*zavro.Value, error) {
	if len(s.vals) == 0 {
		return nil, s.err
	}
	val := s.vals[0]
	s.vals = s.vals[1:]
	return val, nil
}

func (s *sliceReader) Close() error {
	return s.closed
}

type sliceWriter []any

func (s *sliceWriter) Write(val *zavro.Value) error {
	*s = append(*s, val.Data)
	return nil
}

func TestConcatCopy(t *testing.T) {
	r := zio.ConcatReader(newReader(int64(1), int64(2)), newReader(), newReader(int64(3)))
	var w sliceWriter
	require.NoError(t, zio.Copy(&w, r))
	assert.Equal(t, sliceWriter{int64(1), int64(2), int64(3)}, w)
	val, err := r.Read()
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestCopyError(t *testing.T) {
	failing := newReader(int64(1))
	failing.err = errors.New("boom")
	var w sliceWriter
	err := zio.Copy(&w, zio.ConcatReader(failing, newReader(int64(2))))
	assert.EqualError(t, err, "boom")
	assert.Equal(t, sliceWriter{int64(1)}, w)
}

func TestCopyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var w sliceWriter
	err := zio.CopyWithContext(ctx, &w, newReader(int64(1)))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w)
}

func TestCloseReaders(t *testing.T) {
	a, b, c := newReader(), newReader(), newReader()
	a.closed = errors.New("a")
	c.closed = errors.New("c")
	err := zio.CloseReaders([]zio.Reader{a, b, c})
	assert.Len(t, multierr.Errors(err), 2)
	assert.EqualError(t, err, "a; c")
	assert.NoError(t, zio.CloseReaders([]zio.Reader{b}))
}
