// Package binio decodes the primitives of the Avro binary encoding from an
// in-memory buffer or from a stream.
package binio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/brimdata/zavro/pkg/peeker"
	"github.com/brimdata/zavro/zqe"
)

const maxVarintLen = 10

// MaxItems bounds the items of one array whose items take no bytes on the
// wire, such as an array of nulls, since nothing else stops a huge count.
const MaxItems = 1 << 20

var (
	ErrVarintOverflow = errors.New("varint overflows a 64-bit integer")
	ErrNegativeLength = errors.New("negative length")
)

type source interface {
	ReadByte() (byte, error)
	// next returns the next n bytes.  The slice may alias internal
	// storage and is valid until the next call.
	next(n int) ([]byte, error)
	skip(n int64) error
	offset() int64
}

// Decoder reads Avro primitives.  Read errors are io.EOF when the source was
// exhausted before the first byte of a primitive and io.ErrUnexpectedEOF when
// it ran out partway through one.  Malformed encodings yield zqe.Format
// errors.
type Decoder struct {
	src source
}

// NewDecoder returns a Decoder over b.  The Decoder does not modify b.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{src: &buffer{data: b}}
}

// NewStreamDecoder returns a Decoder that pulls bytes from p.
func NewStreamDecoder(p *peeker.Reader) *Decoder {
	return &Decoder{src: &stream{p}}
}

// Pos returns the number of bytes consumed so far.
func (d *Decoder) Pos() int64 {
	return d.src.offset()
}

func (d *Decoder) ReadNull() error {
	return nil
}

func (d *Decoder) ReadBoolean() (bool, error) {
	b, err := d.src.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, zqe.E(zqe.Format, "invalid boolean byte 0x%02x", b)
}

// ReadLong decodes a zigzag varint.
func (d *Decoder) ReadLong() (int64, error) {
	var u uint64
	var shift uint
	for i := 0; i < maxVarintLen; i++ {
		b, err := d.src.ReadByte()
		if err != nil {
			if i > 0 && err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		if i == maxVarintLen-1 && b > 1 {
			break
		}
		u |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return int64(u>>1) ^ -int64(u&1), nil
		}
		shift += 7
	}
	return 0, zqe.E(zqe.Format, ErrVarintOverflow)
}

func (d *Decoder) ReadInt() (int32, error) {
	v, err := d.ReadLong()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, zqe.E(zqe.Format, "int value %d out of range", v)
	}
	return int32(v), nil
}

func (d *Decoder) ReadFloat() (float32, error) {
	b, err := d.src.next(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (d *Decoder) ReadDouble() (float64, error) {
	b, err := d.src.next(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadBytes returns a copy of the next length-prefixed byte sequence.
func (d *Decoder) ReadBytes() ([]byte, error) {
	b, err := d.readLengthPrefixed()
	if err != nil {
		return nil, err
	}
	return append([]byte{}, b...), nil
}

// ReadString returns the next length-prefixed byte sequence as a string
// without validating its encoding.
func (d *Decoder) ReadString() (string, error) {
	b, err := d.readLengthPrefixed()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) readLengthPrefixed() ([]byte, error) {
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	return d.src.next(n)
}

func (d *Decoder) readLength() (int, error) {
	n, err := d.ReadLong()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, zqe.E(zqe.Format, "%w: %d", ErrNegativeLength, n)
	}
	if n > math.MaxInt32 {
		return 0, zqe.E(zqe.Format, "length %d too large", n)
	}
	return int(n), nil
}

// ReadFixed returns a copy of the next size bytes.
func (d *Decoder) ReadFixed(size int) ([]byte, error) {
	b, err := d.src.next(size)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, b...), nil
}

// ReadIndex reads a union branch index.
func (d *Decoder) ReadIndex() (int, error) {
	n, err := d.ReadLong()
	return int(n), err
}

// ReadBlockHeader reads the item count of the next array or map block.  A
// negative count on the wire is followed by the block's size in bytes, which
// is returned as size; otherwise size is -1.  A count of zero ends the
// sequence.
func (d *Decoder) ReadBlockHeader() (count int64, size int64, err error) {
	count, err = d.ReadLong()
	if err != nil {
		return 0, 0, err
	}
	size = -1
	if count < 0 {
		if count == math.MinInt64 {
			return 0, 0, zqe.E(zqe.Format, "invalid block count %d", count)
		}
		count = -count
		if size, err = d.ReadLong(); err != nil {
			return 0, 0, err
		}
		if size < 0 {
			return 0, 0, zqe.E(zqe.Format, "%w: block size %d", ErrNegativeLength, size)
		}
	}
	return count, size, nil
}

// ReadItems calls fn once for each item of an array or map, following the
// block framing until the terminating zero count.
func (d *Decoder) ReadItems(fn func() error) error {
	var empty int64
	for {
		count, _, err := d.ReadBlockHeader()
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		if err := d.items(count, fn, &empty); err != nil {
			return err
		}
	}
}

// items calls fn count times.  Once an item is seen to consume input, a
// count beyond what an in-memory buffer holds fails up front.  Items that
// consume nothing are tallied in empty and limited to MaxItems.
func (d *Decoder) items(count int64, fn func() error, empty *int64) error {
	for k := int64(0); k < count; k++ {
		pos := d.Pos()
		if err := fn(); err != nil {
			return err
		}
		if d.Pos() > pos {
			if b, ok := d.src.(*buffer); ok && count-k-1 > int64(b.length()) {
				return zqe.E(zqe.Format, "block count %d exceeds the %d bytes left", count, b.length())
			}
			continue
		}
		if *empty++; *empty > MaxItems {
			return zqe.E(zqe.Format, "more than %d zero-width items", MaxItems)
		}
	}
	return nil
}

// SkipItems is like ReadItems but jumps over blocks whose byte size was
// written, calling fn only for blocks without one.
func (d *Decoder) SkipItems(fn func() error) error {
	var empty int64
	for {
		count, size, err := d.ReadBlockHeader()
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		if size >= 0 {
			if err := d.Skip(size); err != nil {
				return err
			}
			continue
		}
		if err := d.items(count, fn, &empty); err != nil {
			return err
		}
	}
}

func (d *Decoder) Skip(n int64) error {
	return d.src.skip(n)
}

// SkipBytes skips a length-prefixed bytes or string value.
func (d *Decoder) SkipBytes() error {
	n, err := d.readLength()
	if err != nil {
		return err
	}
	return d.src.skip(int64(n))
}
