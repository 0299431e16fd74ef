// Package peeker provides a buffered reader that hands out slices of its
// internal buffer so that small Avro primitives can be decoded from a stream
// without a copy.  Slices returned by Peek and Read are valid only until the
// next call that may refill the buffer.
package peeker

import (
	"errors"
	"io"
)

type Reader struct {
	io.Reader
	limit  int
	buffer []byte
	cursor []byte
	eof    bool
	offset int64
}

var (
	ErrBufferOverflow = errors.New("buffer too big")
	ErrTruncated      = errors.New("truncated input")
)

// NewReader returns a Reader with an initial buffer of size bytes that
// grows on demand up to max bytes.
func NewReader(reader io.Reader, size, max int) *Reader {
	if size > max {
		size = max
	}
	b := make([]byte, size)
	return &Reader{
		Reader: reader,
		limit:  max,
		buffer: b,
		cursor: b[:0],
	}
}

func (r *Reader) fill(min int) error {
	if min > r.limit {
		return ErrBufferOverflow
	}
	if min > cap(r.buffer) {
		// Grow geometrically so a run of increasing requests does not
		// reallocate each time.
		n := 2 * cap(r.buffer)
		if n < min {
			n = min
		}
		if n > r.limit {
			n = r.limit
		}
		r.buffer = make([]byte, n)
	}
	r.buffer = r.buffer[:cap(r.buffer)]
	clen := copy(r.buffer, r.cursor)
	for clen < min {
		cc, err := r.Reader.Read(r.buffer[clen:])
		clen += cc
		if err != nil {
			if err == io.EOF {
				r.eof = true
				break
			}
			r.cursor = r.buffer[:clen]
			return err
		}
	}
	r.buffer = r.buffer[:clen]
	r.cursor = r.buffer
	return nil
}

// Peek returns the next n bytes without consuming them.  It returns io.EOF
// when the stream is exhausted and ErrTruncated along with the remaining
// bytes when fewer than n are left.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n > len(r.cursor) && !r.eof {
		if err := r.fill(n); err != nil {
			return nil, err
		}
	}
	if len(r.cursor) == 0 && r.eof && n > 0 {
		return nil, io.EOF
	}
	if n > len(r.cursor) {
		return r.cursor, ErrTruncated
	}
	return r.cursor[:n], nil
}

// Read consumes and returns the next n bytes.
func (r *Reader) Read(n int) ([]byte, error) {
	b, err := r.Peek(n)
	if err != nil {
		return nil, err
	}
	r.cursor = r.cursor[n:]
	r.offset += int64(n)
	return b, nil
}

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Discard skips n bytes without requiring them to fit in the buffer.
func (r *Reader) Discard(n int64) error {
	for n > 0 {
		chunk := len(r.cursor)
		if chunk == 0 {
			want := cap(r.buffer)
			if int64(want) > n {
				want = int(n)
			}
			if _, err := r.Peek(want); err != nil && err != ErrTruncated {
				if err == io.EOF {
					return ErrTruncated
				}
				return err
			}
			if chunk = len(r.cursor); chunk == 0 {
				return ErrTruncated
			}
		}
		if int64(chunk) > n {
			chunk = int(n)
		}
		r.cursor = r.cursor[chunk:]
		r.offset += int64(chunk)
		n -= int64(chunk)
	}
	return nil
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.offset
}
