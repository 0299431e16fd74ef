//go:build unix

package rlimit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func raiseOpenFilesLimit() (uint64, error) {
	rlimit, err := maxRlimit()
	if err != nil {
		return 0, err
	}
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return 0, fmt.Errorf("setrlimit: %w", err)
	}
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return 0, fmt.Errorf("getrlimit: %w", err)
	}
	return uint64(rlimit.Cur), nil
}
