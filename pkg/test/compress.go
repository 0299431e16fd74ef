package test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// Bzip2Hello is "hello avro " repeated four times compressed with bzip2,
// for which there is no Go encoder.
const Bzip2Hello = `
42 5a 68 39 31 41 59 26 53 59 97 52 d9 43 00 00
09 91 80 40 00 22 44 91 00 20 00 31 0c 08 0a a0
26 9a 24 c2 4c 34 78 e3 8f 8b b9 22 9c 28 48 4b
a9 6c a1 80
`

// Compress encodes data the way the named container codec frames a block.
// The bzip2 codec is supported only for the data of Bzip2Hello.
func Compress(t testing.TB, codec string, data []byte) []byte {
	t.Helper()
	switch codec {
	case "", "null":
		return append([]byte{}, data...)
	case "deflate":
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.BestCompression)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		return buf.Bytes()
	case "snappy":
		b := snappy.Encode(nil, data)
		return binary.BigEndian.AppendUint32(b, crc32.ChecksumIEEE(data))
	case "zstandard":
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		defer enc.Close()
		return enc.EncodeAll(data, nil)
	case "lz4":
		var c lz4.Compressor
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := c.CompressBlock(data, buf)
		require.NoError(t, err)
		return append(binary.LittleEndian.AppendUint32(nil, uint32(len(data))), buf[:n]...)
	case "xz":
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		return buf.Bytes()
	case "bzip2":
		require.Equal(t, bytes.Repeat([]byte("hello avro "), 4), data, "bzip2 fixture only covers Bzip2Hello")
		return Hex(t, Bzip2Hello)
	}
	t.Fatalf("unknown codec %q", codec)
	return nil
}
