package outputflags

import (
	"flag"
	"fmt"
	"os"

	"github.com/brimdata/zavro/pkg/terminal"
	"github.com/brimdata/zavro/zio"
	"github.com/brimdata/zavro/zio/jsonio"
	"github.com/brimdata/zavro/zqe"
)

type Flags struct {
	jsonio.WriterOpts
	Format     string
	outputFile string
	pretty     bool
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.Format, "f", "json", "format for output data [json,pretty]")
	fs.BoolVar(&f.pretty, "P", false, "use indented JSON output independent of -f option")
	fs.IntVar(&f.Pretty, "indent", 4, "indentation of pretty output")
	fs.StringVar(&f.outputFile, "o", "", "write data to output file")
}

func (f *Flags) Init() error {
	if f.pretty {
		f.Format = "pretty"
	}
	switch f.Format {
	case "json":
		f.Pretty = 0
	case "pretty":
		if f.Pretty <= 0 {
			return zqe.E(zqe.Invalid, "-indent must be positive for pretty output")
		}
	default:
		return zqe.E(zqe.Invalid, "unknown output format %q", f.Format)
	}
	if f.outputFile == "-" {
		f.outputFile = ""
	}
	return nil
}

func (f *Flags) FileName() string {
	return f.outputFile
}

// Open returns a writer for the output file, or for stdout if there is
// none.  Pretty output is the default on a terminal.
func (f *Flags) Open() (zio.WriteCloser, error) {
	if f.outputFile == "" {
		opts := f.WriterOpts
		if opts.Pretty == 0 && f.Format == "json" && terminal.IsTerminalFile(os.Stdout) {
			opts.Pretty = 4
		}
		return jsonio.NewWriter(zio.NopCloser(os.Stdout), opts), nil
	}
	file, err := os.Create(f.outputFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.outputFile, err)
	}
	return jsonio.NewWriter(file, f.WriterOpts), nil
}
