// Package test holds helpers shared by the package tests.
package test

import (
	"encoding/hex"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var hexNoise = regexp.MustCompile(`\s|(#[^\n]*(\n|$))`)

// Hex decodes an annotated hex dump.  Whitespace is ignored and "#" starts a
// comment that runs to the end of the line.
func Hex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(hexNoise.ReplaceAllString(s, ""))
	require.NoError(t, err)
	return b
}

// Trim normalizes expected multi-line output to end in a single newline.
func Trim(s string) string {
	return strings.TrimSpace(s) + "\n"
}
