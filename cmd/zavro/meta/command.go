package meta

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/brimdata/zavro/cli/inputflags"
	"github.com/brimdata/zavro/cmd/zavro/root"
	"github.com/brimdata/zavro/pkg/charm"
	"github.com/brimdata/zavro/zio/anyio"
	"github.com/brimdata/zavro/zio/avroio"
	"gopkg.in/yaml.v3"
)

var Cmd = &charm.Spec{
	Name:  "meta",
	Usage: "meta [options] file|S3-object|- ...",
	Short: "show the header of Avro container files",
	Long: `
The meta command reads the header of each input and shows its codec, sync
marker, writer schema, and metadata.  Output is YAML unless -json is given.
Only the header is read; data blocks are not examined.
`,
	New: New,
}

type Command struct {
	*root.Command
	inputFlags inputflags.Flags
	json       bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.AddFlagSet(f)
	c.inputFlags.SetFlags(f)
	f.BoolVar(&c.json, "json", false, "write JSON instead of YAML")
	return c, nil
}

type fileMeta struct {
	Path     string            `json:"path" yaml:"path"`
	Codec    string            `json:"codec" yaml:"codec"`
	Sync     string            `json:"sync" yaml:"sync"`
	Schema   json.RawMessage   `json:"schema" yaml:"-"`
	Metadata map[string]string `json:"metadata" yaml:"metadata"`
}

// yamlMeta shows the schema as a string since YAML has no raw JSON.
type yamlMeta struct {
	fileMeta `yaml:",inline"`
	Schema   string `yaml:"schema"`
}

func newFileMeta(path string, h *avroio.Header) fileMeta {
	meta := make(map[string]string)
	for _, key := range h.Keys() {
		if key == avroio.SchemaKey || key == avroio.CodecKey {
			continue
		}
		meta[key] = h.Metadata[key]
	}
	return fileMeta{
		Path:     path,
		Codec:    h.Codec,
		Sync:     hex.EncodeToString(h.Sync[:]),
		Schema:   json.RawMessage(h.Schema.String()),
		Metadata: meta,
	}
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 {
		return errors.New("zavro meta: at least one input must be specified (- for stdin)")
	}
	c.inputFlags.SetLogger(c.Logger)
	for _, path := range args {
		m, err := c.read(ctx, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := c.write(os.Stdout, m); err != nil {
			return err
		}
	}
	return nil
}

func (c *Command) read(ctx context.Context, path string) (fileMeta, error) {
	stream, err := anyio.OpenStream(ctx, c.Engine(), path)
	if err != nil {
		return fileMeta{}, err
	}
	defer stream.Close()
	r, err := avroio.NewBlockReader(stream, c.inputFlags.Options().Avro)
	if err != nil {
		return fileMeta{}, err
	}
	return newFileMeta(path, r.Header()), nil
}

func (c *Command) write(w io.Writer, m fileMeta) error {
	if c.json {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		return enc.Encode(m)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlMeta{fileMeta: m, Schema: string(m.Schema)}); err != nil {
		return err
	}
	return enc.Close()
}
