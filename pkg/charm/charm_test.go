package charm

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rootCommand struct {
	verbose bool
}

func (*rootCommand) Run(args []string) error {
	if len(args) == 0 {
		return NeedHelp
	}
	return ErrNoRun
}

type leafCommand struct {
	root  *rootCommand
	limit int
	args  []string
}

func (l *leafCommand) Run(args []string) error {
	l.args = args
	return nil
}

func newSpecs(leaf **leafCommand) *Spec {
	root := &Spec{
		Name:  "tool",
		Usage: "tool [options] command",
		Short: "a tool",
		New: func(Command, *flag.FlagSet) (Command, error) {
			return &rootCommand{}, nil
		},
	}
	root.Add(&Spec{
		Name:        "leaf",
		Usage:       "leaf [options] file...",
		Short:       "do a thing",
		Long:        "Leaf does a thing to each file.\n\nIt does it well.",
		HiddenFlags: "secret",
		New: func(parent Command, fs *flag.FlagSet) (Command, error) {
			fs.BoolVar(&parent.(*rootCommand).verbose, "v", false, "verbose")
			l := &leafCommand{root: parent.(*rootCommand)}
			fs.IntVar(&l.limit, "n", 0, "limit")
			fs.Bool("secret", false, "hidden flag")
			*leaf = l
			return l, nil
		},
	})
	return root
}

func TestExec(t *testing.T) {
	var leaf *leafCommand
	root := newSpecs(&leaf)
	require.NoError(t, root.ExecRoot([]string{"leaf", "-v", "-n", "3", "a", "b"}))
	assert.True(t, leaf.root.verbose)
	assert.Equal(t, 3, leaf.limit)
	assert.Equal(t, []string{"a", "b"}, leaf.args)

	err := root.ExecRoot([]string{"nope"})
	assert.ErrorContains(t, err, `no such sub-command "nope"`)
	err = root.ExecRoot([]string{"leaf", "-bogus"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, NeedHelp))
}

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	HelpOutput = &buf
	defer func() { HelpOutput = os.Stderr }()
	var leaf *leafCommand
	root := newSpecs(&leaf)

	require.NoError(t, root.ExecRoot([]string{"leaf", "-h"}))
	out := buf.String()
	assert.Contains(t, out, "tool leaf - do a thing")
	assert.Contains(t, out, "-n int  limit")
	assert.Contains(t, out, "-v  verbose")
	assert.NotContains(t, out, "-secret")
	assert.Contains(t, out, "It does it well.")

	buf.Reset()
	require.NoError(t, root.ExecRoot([]string{"leaf", "-hidden"}))
	assert.Contains(t, buf.String(), "[-secret]")

	buf.Reset()
	require.NoError(t, root.ExecRoot(nil))
	assert.Contains(t, buf.String(), "leaf - do a thing")
}
