package root

import (
	"context"
	"flag"

	"github.com/brimdata/zavro/cli"
	"github.com/brimdata/zavro/cli/logflags"
	"github.com/brimdata/zavro/pkg/charm"
	"github.com/brimdata/zavro/pkg/storage"
	"go.uber.org/zap"
)

var Zavro = &charm.Spec{
	Name:  "zavro",
	Usage: "zavro <command> [options] [arguments...]",
	Short: "read Avro data",
	Long: `
zavro is a command-line tool for reading Avro object container files and
schemaless Avro data.  Records may be resolved to a reader schema other
than the schema they were written with.

Inputs are local paths, "-" for standard input, or http, https, or s3
URLs.  Gzip-compressed inputs are decompressed transparently.`,
	New: New,
}

type Command struct {
	charm.Command
	cli.Flags
	logFlags logflags.Flags
	Logger   *zap.Logger
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.Flags.SetFlags(f)
	c.logFlags.SetFlags(f)
	return c, nil
}

// Init initializes the flag groups of a subcommand along with the root
// flags and opens the logger.
func (c *Command) Init(all ...cli.Initializer) (context.Context, func(), error) {
	ctx, cleanup, err := c.Flags.Init(all...)
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.logFlags.Open()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	c.Logger = logger
	return ctx, func() {
		logger.Sync()
		cleanup()
	}, nil
}

// Engine returns the storage engine used to open inputs.
func (c *Command) Engine() storage.Engine {
	return storage.NewLocalEngine()
}

func (c *Command) Run(args []string) error {
	_, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 {
		return charm.NeedHelp
	}
	return charm.ErrNoRun
}
