package binio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/brimdata/zavro/pkg/peeker"
	"github.com/brimdata/zavro/pkg/test"
	"github.com/brimdata/zavro/zqe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitives(t *testing.T) {
	b := test.Hex(t, `
# boolean true
01
# int 1, -1, 64, -65
02 01 80 01 81 01
# long 2^40
80 80 80 80 80 40
# float 1.5
00 00 c0 3f
# double -2.25
00 00 00 00 00 00 02 c0
# string "foo"
06 66 6f 6f
# fixed(2)
ca fe
# union index 1
02
`)
	for _, d := range []*Decoder{NewDecoder(b), NewStreamDecoder(peeker.NewReader(bytes.NewReader(b), 4, 64))} {
		v, err := d.ReadBoolean()
		require.NoError(t, err)
		assert.True(t, v)
		for _, expected := range []int32{1, -1, 64, -65} {
			i, err := d.ReadInt()
			require.NoError(t, err)
			assert.Equal(t, expected, i)
		}
		l, err := d.ReadLong()
		require.NoError(t, err)
		assert.Equal(t, int64(1)<<40, l)
		f, err := d.ReadFloat()
		require.NoError(t, err)
		assert.Equal(t, float32(1.5), f)
		dbl, err := d.ReadDouble()
		require.NoError(t, err)
		assert.Equal(t, -2.25, dbl)
		s, err := d.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "foo", s)
		fixed, err := d.ReadFixed(2)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xca, 0xfe}, fixed)
		idx, err := d.ReadIndex()
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
		assert.EqualValues(t, len(b), d.Pos())
		_, err = d.ReadLong()
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestLongExtremes(t *testing.T) {
	b := test.Hex(t, `
# math.MaxInt64
fe ff ff ff ff ff ff ff ff 01
# math.MinInt64
ff ff ff ff ff ff ff ff ff 01
`)
	d := NewDecoder(b)
	v, err := d.ReadLong()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v)
	v, err = d.ReadLong()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), v)
}

func TestVarintOverflow(t *testing.T) {
	d := NewDecoder(test.Hex(t, "ff ff ff ff ff ff ff ff ff 7f"))
	_, err := d.ReadLong()
	assert.ErrorIs(t, err, ErrVarintOverflow)
	assert.True(t, zqe.IsFormat(err))
}

func TestIntRange(t *testing.T) {
	// 2^31
	d := NewDecoder(test.Hex(t, "80 80 80 80 10"))
	_, err := d.ReadInt()
	assert.True(t, zqe.IsFormat(err))
}

func TestTruncation(t *testing.T) {
	d := NewDecoder(test.Hex(t, "80"))
	_, err := d.ReadLong()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	// string of length 3 with only 2 bytes
	b := test.Hex(t, "06 66 6f")
	_, err = NewDecoder(b).ReadString()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, err = NewStreamDecoder(peeker.NewReader(bytes.NewReader(b), 16, 16)).ReadString()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = NewDecoder(nil).ReadDouble()
	assert.ErrorIs(t, err, io.EOF)
}

func TestNegativeLength(t *testing.T) {
	_, err := NewDecoder(test.Hex(t, "01")).ReadBytes()
	assert.ErrorIs(t, err, ErrNegativeLength)
}

func TestBadBoolean(t *testing.T) {
	_, err := NewDecoder([]byte{2}).ReadBoolean()
	assert.True(t, zqe.IsFormat(err))
}

func TestItems(t *testing.T) {
	b := test.Hex(t, `
# block of 2 longs
04 02 04
# block of 1 long with byte size 1 (count -1, size 1)
01 02 06
# end of array
00
# trailing long 7
0e
`)
	var vals []int64
	d := NewDecoder(b)
	err := d.ReadItems(func() error {
		v, err := d.ReadLong()
		vals = append(vals, v)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, vals)
	v, err := d.ReadLong()
	require.NoError(t, err)
	assert.EqualValues(t, 7, v)

	var calls int
	d = NewDecoder(b)
	err = d.SkipItems(func() error {
		calls++
		_, err := d.ReadLong()
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "sized block should be skipped without callbacks")
	v, err = d.ReadLong()
	require.NoError(t, err)
	assert.EqualValues(t, 7, v)
}

func TestItemCounts(t *testing.T) {
	// 2^62 longs claimed, 2 bytes present
	b := binary.AppendVarint(nil, 1<<62)
	b = append(b, 02, 04)
	d := NewDecoder(b)
	var calls int
	err := d.ReadItems(func() error {
		calls++
		_, err := d.ReadLong()
		return err
	})
	require.Error(t, err)
	assert.True(t, zqe.IsFormat(err), "%v", err)
	assert.Equal(t, 1, calls)

	// 2^62 nulls
	d = NewDecoder(binary.AppendVarint(nil, 1<<62))
	calls = 0
	err = d.SkipItems(func() error {
		calls++
		return d.ReadNull()
	})
	require.Error(t, err)
	assert.True(t, zqe.IsFormat(err), "%v", err)
	assert.Equal(t, MaxItems+1, calls)

	// zero-width items within the limit are fine
	d = NewDecoder(append(binary.AppendVarint(nil, 1000), 0))
	calls = 0
	require.NoError(t, d.ReadItems(func() error {
		calls++
		return d.ReadNull()
	}))
	assert.Equal(t, 1000, calls)
}

func TestReadBytesCopies(t *testing.T) {
	b := test.Hex(t, "04 01 02")
	out, err := NewDecoder(b).ReadBytes()
	require.NoError(t, err)
	b[1] = 9
	assert.Equal(t, []byte{1, 2}, out)
}
