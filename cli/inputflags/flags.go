package inputflags

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/alecthomas/units"
	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/pkg/storage"
	"github.com/brimdata/zavro/zio/anyio"
	"github.com/brimdata/zavro/zio/avroio"
	"github.com/brimdata/zavro/zqe"
	"go.uber.org/zap"
)

type Flags struct {
	anyio.ReaderOpts
	readerSchema    string
	maxBlockSize    string
	maxDecompressed string
}

func (f *Flags) Options() anyio.ReaderOpts {
	return f.ReaderOpts
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.readerSchema, "reader-schema", "", "path or URI of a schema to resolve records to")
	fs.BoolVar(&f.Avro.ReturnRecordName, "record-name", false, "tag record values in unions with their record name")
	fs.Var(&f.Avro.Unicode, "unicode", "handling of invalid UTF-8 in strings (values: strict, replace, ignore)")
	fs.IntVar(&f.Threads, "threads", runtime.GOMAXPROCS(0), "number of goroutines decoding blocks (1 decodes in order on one goroutine)")
	fs.StringVar(&f.maxBlockSize, "maxblocksize", units.Base2Bytes(avroio.DefaultMaxBlockSize).String(), "maximum compressed block size, as '64MiB' or '1GB', etc.")
	fs.StringVar(&f.maxDecompressed, "maxdecompressed", units.Base2Bytes(avroio.DefaultMaxDecompressedSize).String(), "maximum decompressed block size")
}

func parseSize(name, s string) (int, error) {
	n, err := units.ParseStrictBytes(s)
	if err != nil {
		return 0, zqe.E(zqe.Invalid, "-%s: %w", name, err)
	}
	if n <= 0 {
		return 0, zqe.E(zqe.Invalid, "-%s must be positive", name)
	}
	return int(n), nil
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	var err error
	if f.Avro.MaxBlockSize, err = parseSize("maxblocksize", f.maxBlockSize); err != nil {
		return err
	}
	if f.Avro.MaxDecompressedSize, err = parseSize("maxdecompressed", f.maxDecompressed); err != nil {
		return err
	}
	if f.readerSchema != "" {
		typ, err := LoadSchema(context.Background(), storage.NewLocalEngine(), f.readerSchema)
		if err != nil {
			return err
		}
		f.Avro.ReaderSchema = typ
	}
	return nil
}

// SetLogger sets the logger given to readers.
func (f *Flags) SetLogger(logger *zap.Logger) {
	f.Avro.Logger = logger
}

// LoadSchema reads and parses the schema at path, which may be any input
// understood by engine.
func LoadSchema(ctx context.Context, engine storage.Engine, path string) (zavro.Type, error) {
	b, err := storage.ReadFile(ctx, engine, path, storage.MaxReadFile)
	if err != nil {
		return nil, err
	}
	typ, err := zavro.ParseSchema(b)
	if err != nil {
		return nil, zqe.E(zqe.Invalid, "%s: %w", path, err)
	}
	return typ, nil
}

// Open opens each of paths.  If stopOnErr is false, inputs that fail to
// open are reported on stderr and skipped.
func (f *Flags) Open(ctx context.Context, engine storage.Engine, paths []string, stopOnErr bool) ([]*anyio.File, error) {
	var files []*anyio.File
	for _, path := range paths {
		file, err := anyio.Open(ctx, engine, path, f.ReaderOpts)
		if err != nil {
			err = fmt.Errorf("%s: %w", path, err)
			if stopOnErr {
				for _, file := range files {
					file.Close()
				}
				return nil, err
			}
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		files = append(files, file)
	}
	return files, nil
}
