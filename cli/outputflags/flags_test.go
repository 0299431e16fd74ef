package outputflags

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/zqe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*Flags, error) {
	t.Helper()
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return &f, f.Init()
}

func TestFormats(t *testing.T) {
	f, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, "json", f.Format)
	assert.Equal(t, 0, f.Pretty)

	f, err = parse(t, "-P", "-indent", "2")
	require.NoError(t, err)
	assert.Equal(t, "pretty", f.Format)
	assert.Equal(t, 2, f.Pretty)

	_, err = parse(t, "-f", "csv")
	assert.True(t, zqe.IsInvalid(err), "%v", err)
	_, err = parse(t, "-f", "pretty", "-indent", "0")
	assert.True(t, zqe.IsInvalid(err), "%v", err)
}

func TestOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	f, err := parse(t, "-o", path)
	require.NoError(t, err)
	assert.Equal(t, path, f.FileName())
	w, err := f.Open()
	require.NoError(t, err)
	require.NoError(t, w.Write(&zavro.Value{Data: map[string]any{"id": int64(1)}}))
	require.NoError(t, w.Close())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1}\n", string(b))

	f, err = parse(t, "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, "", f.FileName())
}
