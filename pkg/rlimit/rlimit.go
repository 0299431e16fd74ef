// Package rlimit raises the limit on open files so that many inputs may be
// read at once.
package rlimit

// RaiseOpenFilesLimit raises the soft limit on open files to the hard limit
// and returns the new soft limit.  On platforms without resource limits it
// returns zero and no error.
func RaiseOpenFilesLimit() (uint64, error) {
	return raiseOpenFilesLimit()
}
