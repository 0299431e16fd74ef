package anyio

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/gzip"
)

// RFC 1952, Section 2.3.1
const (
	gzipID1 = 0x1f
	gzipID2 = 0x8b
)

// GzipReader returns a reader of the decompressed stream if r is gzip
// compressed.  Otherwise, it returns a reader of r's bytes.
func GzipReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	b, err := br.Peek(2)
	if err != nil || b[0] != gzipID1 || b[1] != gzipID2 {
		return br, nil
	}
	return gzip.NewReader(br)
}
