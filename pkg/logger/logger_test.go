package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zavro.log")
	for _, mode := range []FileMode{FileModeTruncate, FileModeAppend, FileModeRotate} {
		logger, err := New(Config{Path: path, Mode: mode, Level: zap.InfoLevel})
		require.NoError(t, err)
		logger.Debug("dropped")
		logger.Info("kept", zap.String("mode", string(mode)))
		require.NoError(t, logger.Sync())
	}
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	// Append keeps the truncate entry and rotate appends to the file.
	require.Len(t, lines, 3)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "append", entry["mode"])
	assert.Equal(t, "info", entry["level"])
}

func TestFileMode(t *testing.T) {
	var m FileMode
	require.NoError(t, m.Set("rotate"))
	assert.Equal(t, FileModeRotate, m)
	require.NoError(t, m.UnmarshalText([]byte("")))
	assert.Equal(t, FileModeTruncate, m)
	assert.Error(t, m.Set("sideways"))
}

func TestRotationDefaults(t *testing.T) {
	r := Rotation{MaxBackups: 7}.withDefaults()
	assert.Equal(t, DefaultRotation.MaxSizeMiB, r.MaxSizeMiB)
	assert.Equal(t, 7, r.MaxBackups)
	assert.Equal(t, DefaultRotation.MaxAgeDays, r.MaxAgeDays)
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing", "zavro.log"), FileModeRotate, r)
	assert.Error(t, err)
}
