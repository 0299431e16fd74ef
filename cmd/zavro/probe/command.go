package probe

import (
	"errors"
	"flag"
	"fmt"

	"github.com/brimdata/zavro/cmd/zavro/root"
	"github.com/brimdata/zavro/pkg/charm"
	"github.com/brimdata/zavro/zio/anyio"
	"github.com/brimdata/zavro/zio/avroio"
	"go.uber.org/zap"
)

var Cmd = &charm.Spec{
	Name:  "probe",
	Usage: "probe [options] file|S3-object|- ...",
	Short: "report whether inputs are Avro container files",
	Long: `
The probe command reads the first bytes of each input and reports whether
it begins with the Avro container file magic.  With -q, nothing is printed
and the command fails unless every input is a container file.
`,
	New: New,
}

type Command struct {
	*root.Command
	quiet bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.AddFlagSet(f)
	f.BoolVar(&c.quiet, "q", false, "print nothing and fail if any input is not Avro")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 {
		return errors.New("zavro probe: at least one input must be specified (- for stdin)")
	}
	var notAvro int
	for _, path := range args {
		stream, err := anyio.OpenStream(ctx, c.Engine(), path)
		if err != nil {
			return err
		}
		ok, err := avroio.IsAvro(stream)
		stream.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		c.Logger.Debug("probed input", zap.String("path", path), zap.Bool("avro", ok))
		if !ok {
			notAvro++
		}
		if !c.quiet {
			fmt.Printf("%s: %t\n", path, ok)
		}
	}
	if c.quiet && notAvro > 0 {
		return fmt.Errorf("%d of %d inputs are not Avro container files", notAvro, len(args))
	}
	return nil
}
