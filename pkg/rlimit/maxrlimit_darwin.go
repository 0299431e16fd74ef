package rlimit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// The hard limit may be RLIM_INFINITY on macOS, but setrlimit rejects a
// soft limit above kern.maxfilesperproc.
func maxRlimit() (unix.Rlimit, error) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return rlimit, fmt.Errorf("getrlimit: %w", err)
	}
	kernMax, err := unix.SysctlUint32("kern.maxfilesperproc")
	if err != nil {
		return rlimit, fmt.Errorf("sysctl: %w", err)
	}
	rlimit.Cur = rlimit.Max
	if uint64(kernMax) < uint64(rlimit.Max) {
		rlimit.Cur = uint64(kernMax)
	}
	return rlimit, nil
}
