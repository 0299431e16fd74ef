package blocks

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/units"
	"github.com/brimdata/zavro/cli/inputflags"
	"github.com/brimdata/zavro/cmd/zavro/root"
	"github.com/brimdata/zavro/pkg/charm"
	"github.com/brimdata/zavro/zio/anyio"
	"github.com/brimdata/zavro/zio/avroio"
)

var Cmd = &charm.Spec{
	Name:  "blocks",
	Usage: "blocks [options] file|S3-object|-",
	Short: "list the data blocks of an Avro container file",
	Long: `
The blocks command lists each data block of a container file: its offset in
the file, its size as stored, its record count, and its size after
decompression.  With -decode, the records of each block are decoded too and
the first error, if any, is shown with the block.
`,
	New: New,
}

type Command struct {
	*root.Command
	inputFlags inputflags.Flags
	decode     bool
	human      bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.AddFlagSet(f)
	c.inputFlags.SetFlags(f)
	f.BoolVar(&c.decode, "decode", false, "decode the records of each block")
	f.BoolVar(&c.human, "H", false, "show sizes in human-readable units")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 1 {
		return errors.New("zavro blocks: exactly one input must be specified (- for stdin)")
	}
	c.inputFlags.SetLogger(c.Logger)
	stream, err := anyio.OpenStream(ctx, c.Engine(), args[0])
	if err != nil {
		return err
	}
	defer stream.Close()
	reader, err := avroio.NewBlockReader(stream, c.inputFlags.Options().Avro)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	header := "OFFSET\tSIZE\tRECORDS\tDECOMPRESSED"
	if c.decode {
		header += "\tSTATUS"
	}
	fmt.Fprintln(w, header)
	for {
		if err := ctx.Err(); err != nil {
			w.Flush()
			return err
		}
		block, err := reader.Next()
		if err != nil {
			w.Flush()
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if block == nil {
			break
		}
		line := fmt.Sprintf("%d\t%s\t%d\t%s", block.Offset, c.size(block.Size), block.NumRecords, c.size(int64(len(block.Bytes))))
		if c.decode {
			status := "ok"
			if _, err := block.Decode(); err != nil {
				status = err.Error()
			}
			line += "\t" + status
		}
		fmt.Fprintln(w, line)
	}
	return w.Flush()
}

func (c *Command) size(n int64) string {
	if c.human {
		return units.Base2Bytes(n).String()
	}
	return fmt.Sprint(n)
}
