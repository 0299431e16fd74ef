//go:build unix

package rlimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestRaiseOpenFilesLimit(t *testing.T) {
	var before unix.Rlimit
	require.NoError(t, unix.Getrlimit(unix.RLIMIT_NOFILE, &before))
	n, err := RaiseOpenFilesLimit()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, uint64(before.Cur))
}
