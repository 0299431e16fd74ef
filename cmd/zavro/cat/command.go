package cat

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/units"
	"github.com/brimdata/zavro/cli/inputflags"
	"github.com/brimdata/zavro/cli/outputflags"
	"github.com/brimdata/zavro/cmd/zavro/root"
	"github.com/brimdata/zavro/pkg/charm"
	"github.com/brimdata/zavro/pkg/display"
	"github.com/brimdata/zavro/pkg/rlimit"
	"github.com/brimdata/zavro/pkg/terminal"
	"github.com/brimdata/zavro/zio"
	"github.com/brimdata/zavro/zio/anyio"
	"github.com/brimdata/zavro/zio/avroio"
	"github.com/paulbellamy/ratecounter"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var Cmd = &charm.Spec{
	Name:  "cat",
	Usage: "cat [options] file|S3-object|- ...",
	Short: "decode the records of Avro container files",
	Long: `
The cat command decodes the records of each input, in order, and writes
them as JSON.  With -reader-schema, records are resolved to the given
schema.  Blocks are decoded by -threads goroutines while output order is
preserved.

With -stats, the number of blocks, records, and bytes read from each input
is written to stderr when the command finishes.  When stderr is a terminal
and -q is not given, progress is displayed while inputs are read.
`,
	New: New,
}

type Command struct {
	*root.Command
	inputFlags  inputflags.Flags
	outputFlags outputflags.Flags
	stats       bool
	quiet       bool
	stopOnErr   bool

	// status output
	ctx       context.Context
	rate      *ratecounter.RateCounter
	files     []*anyio.File
	totalRead int64
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.AddFlagSet(f)
	c.inputFlags.SetFlags(f)
	c.outputFlags.SetFlags(f)
	f.BoolVar(&c.stats, "stats", false, "write read statistics to stderr")
	f.BoolVar(&c.quiet, "q", false, "don't display progress")
	f.BoolVar(&c.stopOnErr, "e", true, "stop upon input errors")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags, &c.outputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 {
		return errors.New("zavro cat: at least one input must be specified (- for stdin)")
	}
	limit, err := rlimit.RaiseOpenFilesLimit()
	if err != nil {
		return err
	}
	c.Logger.Debug("raised open files limit", zap.Uint64("limit", limit))
	c.inputFlags.SetLogger(c.Logger)
	c.files, err = c.inputFlags.Open(ctx, c.Engine(), args, c.stopOnErr)
	if err != nil {
		return err
	}
	readers := make([]zio.Reader, len(c.files))
	for i, f := range c.files {
		readers[i] = f
	}
	defer zio.CloseReaders(readers)
	writer, err := c.outputFlags.Open()
	if err != nil {
		return err
	}
	var d *display.Display
	if !c.quiet && c.outputFlags.FileName() != "" && terminal.IsTerminalFile(os.Stderr) {
		c.ctx = ctx
		c.rate = ratecounter.NewRateCounter(time.Second)
		d = display.New(c, time.Second/2, os.Stderr)
		go d.Run()
	}
	err = zio.CopyWithContext(ctx, writer, zio.ConcatReader(readers...))
	if d != nil {
		d.Close()
	}
	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}
	if c.stats {
		if statsErr := c.writeStats(os.Stderr); err == nil {
			err = statsErr
		}
	}
	if err != nil {
		c.Logger.Debug("cat failed", zap.Error(err))
	}
	return err
}

type fileStats struct {
	Path         string `yaml:"path"`
	Codec        string `yaml:"codec"`
	avroio.Stats `yaml:",inline"`
}

func (c *Command) writeStats(w io.Writer) error {
	stats := make([]fileStats, 0, len(c.files))
	for _, f := range c.files {
		stats = append(stats, fileStats{
			Path:  f.Path,
			Codec: f.Header.Codec,
			Stats: f.Stats(),
		})
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(stats)
}

// (1/2) 12MiB/40MiB 4MiB/s 30.00% 9104 records

func (c *Command) Display(w io.Writer) bool {
	var total avroio.Stats
	var started int
	var size int64
	for _, f := range c.files {
		s := f.Stats()
		if s.BlocksRead > 0 {
			started++
		}
		total.Add(s)
		size += f.Size
	}
	read := units.Base2Bytes(total.BytesRead)
	rate := units.Base2Bytes(c.incrRate(total.BytesRead))
	fmt.Fprintf(w, "(%d/%d) ", started, len(c.files))
	if size == 0 {
		fmt.Fprintf(w, "%s %s/s", read, rate)
	} else {
		fmt.Fprintf(w, "%s/%s %s/s %.2f%%", read, units.Base2Bytes(size), rate, float64(total.BytesRead)/float64(size)*100)
	}
	fmt.Fprintf(w, " %d records\n", total.RecordsRead)
	return c.ctx.Err() == nil
}

func (c *Command) incrRate(read int64) int64 {
	c.rate.Incr(read - c.totalRead)
	c.totalRead = read
	return c.rate.Rate()
}
