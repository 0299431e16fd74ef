package binio

import (
	"io"

	"github.com/brimdata/zavro/pkg/peeker"
)

type buffer struct {
	data []byte
	off  int
}

func (b *buffer) length() int {
	return len(b.data) - b.off
}

func (b *buffer) ReadByte() (byte, error) {
	if b.length() < 1 {
		return 0, io.EOF
	}
	c := b.data[b.off]
	b.off++
	return c, nil
}

func (b *buffer) next(n int) ([]byte, error) {
	if avail := b.length(); n > avail {
		if avail == 0 && n > 0 {
			return nil, io.EOF
		}
		b.off = len(b.data)
		return nil, io.ErrUnexpectedEOF
	}
	off := b.off
	b.off += n
	return b.data[off:b.off], nil
}

func (b *buffer) skip(n int64) error {
	if n > int64(b.length()) {
		b.off = len(b.data)
		return io.ErrUnexpectedEOF
	}
	b.off += int(n)
	return nil
}

func (b *buffer) offset() int64 {
	return int64(b.off)
}

type stream struct {
	p *peeker.Reader
}

func (s *stream) ReadByte() (byte, error) {
	c, err := s.p.ReadByte()
	return c, streamErr(err)
}

func (s *stream) next(n int) ([]byte, error) {
	b, err := s.p.Read(n)
	return b, streamErr(err)
}

func (s *stream) skip(n int64) error {
	return streamErr(s.p.Discard(n))
}

func (s *stream) offset() int64 {
	return s.p.Offset()
}

func streamErr(err error) error {
	if err == peeker.ErrTruncated {
		return io.ErrUnexpectedEOF
	}
	return err
}
