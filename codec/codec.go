// Package codec implements the block compression codecs of Avro object
// container files.  The snappy, zstandard, lz4, and xz codecs may be left
// out of a build with the nosnappy, nozstd, nolz4, and noxz build tags, in
// which case files using them fail when a block is decompressed rather than
// when the file is opened.
package codec

import (
	"bytes"
	"compress/bzip2"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/brimdata/zavro/zqe"
	"github.com/klauspost/compress/flate"
)

var (
	ErrUnknownCodec     = errors.New("unrecognized codec")
	ErrCodecUnavailable = errors.New("codec unavailable")
	ErrTooLarge         = errors.New("decompressed block exceeds limit")
)

// Codec decompresses the payload of one container block.  Decompress
// fails with ErrTooLarge rather than produce more than limit bytes.
type Codec interface {
	Name() string
	Decompress(src []byte, limit int) ([]byte, error)
}

// known maps each codec name defined for container files to the Go module
// that implements it.
var known = map[string]string{
	"null":      "",
	"deflate":   "github.com/klauspost/compress/flate",
	"bzip2":     "compress/bzip2",
	"snappy":    "github.com/golang/snappy",
	"zstandard": "github.com/klauspost/compress/zstd",
	"lz4":       "github.com/pierrec/lz4/v4",
	"xz":        "github.com/ulikunitz/xz",
}

var (
	mu       sync.RWMutex
	registry = map[string]Codec{}
)

func register(c Codec) {
	mu.Lock()
	defer mu.Unlock()
	registry[c.Name()] = c
}

func init() {
	register(Null{})
	register(Deflate{})
	register(Bzip2{})
}

// Lookup returns the codec called name.  An empty name means "null".  A
// name outside the known set is an error.  A known codec that was built
// out is returned as a Codec whose Decompress fails with
// ErrCodecUnavailable.
func Lookup(name string) (Codec, error) {
	if name == "" {
		name = "null"
	}
	module, ok := known[name]
	if !ok {
		return nil, zqe.E(zqe.Codec, "%w: %q", ErrUnknownCodec, name)
	}
	mu.RLock()
	defer mu.RUnlock()
	if c, ok := registry[name]; ok {
		return c, nil
	}
	return unavailable{name, module}, nil
}

// Names returns the names of the codecs compiled into this build.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	var names []string
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type unavailable struct {
	name   string
	module string
}

func (u unavailable) Name() string { return u.name }

func (u unavailable) Decompress([]byte, int) ([]byte, error) {
	return nil, zqe.E(zqe.Codec, "%w: %s support was not compiled in (requires %s)", ErrCodecUnavailable, u.name, u.module)
}

func corrupt(name string, err error) error {
	return zqe.E(zqe.Codec, "%s: corrupt block: %w", name, err)
}

func tooLarge(name string, limit int) error {
	return zqe.E(zqe.Codec, "%s: %w of %d bytes", name, ErrTooLarge, limit)
}

// readAll reads r to the end, stopping one byte past limit.
func readAll(name string, r io.Reader, limit int) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, corrupt(name, err)
	}
	if len(b) > limit {
		return nil, tooLarge(name, limit)
	}
	return b, nil
}

type Null struct{}

func (Null) Name() string { return "null" }

func (Null) Decompress(src []byte, limit int) ([]byte, error) {
	if len(src) > limit {
		return nil, tooLarge("null", limit)
	}
	return src, nil
}

// Deflate is raw RFC 1951 data with no zlib header.
type Deflate struct{}

func (Deflate) Name() string { return "deflate" }

func (Deflate) Decompress(src []byte, limit int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer r.Close()
	return readAll("deflate", r, limit)
}

type Bzip2 struct{}

func (Bzip2) Name() string { return "bzip2" }

func (Bzip2) Decompress(src []byte, limit int) ([]byte, error) {
	return readAll("bzip2", bzip2.NewReader(bytes.NewReader(src)), limit)
}
