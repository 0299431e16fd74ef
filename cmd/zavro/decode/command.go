package decode

import (
	"bytes"
	"encoding/hex"
	"errors"
	"flag"
	"io"
	"regexp"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/cli/inputflags"
	"github.com/brimdata/zavro/cli/outputflags"
	"github.com/brimdata/zavro/cmd/zavro/root"
	"github.com/brimdata/zavro/datum"
	"github.com/brimdata/zavro/pkg/charm"
	"github.com/brimdata/zavro/zio"
	"github.com/brimdata/zavro/zio/anyio"
	"github.com/brimdata/zavro/zio/avroio"
	"github.com/brimdata/zavro/zqe"
)

var Cmd = &charm.Spec{
	Name:  "decode",
	Usage: "decode -schema file [options] [file|S3-object|-]",
	Short: "decode schemaless Avro data",
	Long: `
The decode command decodes Avro values that carry no container framing,
using the writer schema given by -schema.  Values are read back to back
until the input ends.  With -one, exactly one value is decoded and any
input after it is ignored.

With -hex, the input is hexadecimal text, where whitespace is ignored and
a # starts a comment that runs to the end of the line.  Input is read from
stdin when no path is given.
`,
	New: New,
}

type Command struct {
	*root.Command
	inputFlags  inputflags.Flags
	outputFlags outputflags.Flags
	schema      string
	hex         bool
	one         bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.AddFlagSet(f)
	c.inputFlags.SetFlags(f)
	c.outputFlags.SetFlags(f)
	f.StringVar(&c.schema, "schema", "", "path or URI of the writer schema (required)")
	f.BoolVar(&c.hex, "hex", false, "input is hexadecimal text")
	f.BoolVar(&c.one, "one", false, "decode a single value")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags, &c.outputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if c.schema == "" {
		return errors.New("zavro decode: -schema must be specified")
	}
	if len(args) > 1 {
		return errors.New("zavro decode: at most one input may be specified")
	}
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	writer, err := inputflags.LoadSchema(ctx, c.Engine(), c.schema)
	if err != nil {
		return err
	}
	stream, err := anyio.OpenStream(ctx, c.Engine(), path)
	if err != nil {
		return err
	}
	defer stream.Close()
	var in io.Reader = stream
	if c.hex {
		b, err := io.ReadAll(stream)
		if err != nil {
			return err
		}
		if b, err = Unhex(string(b)); err != nil {
			return err
		}
		in = bytes.NewReader(b)
	}
	opts := c.inputFlags.Options().Avro
	reader := opts.ReaderSchema
	dopts := datum.Options{ReturnRecordName: opts.ReturnRecordName, Unicode: opts.Unicode}
	out, err := c.outputFlags.Open()
	if err != nil {
		return err
	}
	if c.one {
		v, err := avroio.SchemalessReader(in, writer, reader, dopts)
		if err == nil {
			typ := reader
			if typ == nil {
				typ = writer
			}
			err = out.Write(&zavro.Value{Type: typ, Data: v})
		}
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		return err
	}
	err = zio.CopyWithContext(ctx, out, avroio.NewDatumReader(in, writer, reader, dopts))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}

var hexNoise = regexp.MustCompile(`\s|(#[^\n]*(\n|$))`)

// Unhex decodes hexadecimal text in which whitespace is ignored and # starts
// a comment.
func Unhex(s string) ([]byte, error) {
	b, err := hex.DecodeString(hexNoise.ReplaceAllString(s, ""))
	if err != nil {
		return nil, zqe.E(zqe.Invalid, "hex input: %w", err)
	}
	return b, nil
}
