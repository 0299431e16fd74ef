package cli

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type initFunc func() error

func (f initFunc) Init() error { return f() }

func TestInit(t *testing.T) {
	fs := flag.NewFlagSet("zavro", flag.ContinueOnError)
	threads := fs.Int("threads", 1, "")
	var f Flags
	f.SetFlags(fs)
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: 3\n"), 0644))
	require.NoError(t, fs.Parse([]string{"-config", path}))

	var seen int
	ctx, cleanup, err := f.Init(initFunc(func() error {
		seen = *threads
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, seen)
	assert.NoError(t, ctx.Err())
	cleanup()
	assert.EqualError(t, ctx.Err(), "interrupted")
}

func TestInitErrors(t *testing.T) {
	var f Flags
	f.SetFlags(flag.NewFlagSet("zavro", flag.ContinueOnError))
	first := errors.New("first")
	_, _, err := f.Init(
		initFunc(func() error { return first }),
		initFunc(func() error { return errors.New("second") }),
	)
	assert.ErrorIs(t, err, first)

	f.cpuprofile = filepath.Join(t.TempDir(), "missing", "cpu.prof")
	_, _, err = f.Init()
	assert.ErrorContains(t, err, "cpuprofile")
}
