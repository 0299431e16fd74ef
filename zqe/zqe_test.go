package zqe

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := E(Resolution, "field %q has no default", "c")
	assert.EqualError(t, err, `schema resolution error: field "c" has no default`)
	assert.Equal(t, `field "c" has no default`, err.(*Error).Message())
	assert.EqualError(t, E(Format), "format error")
	assert.EqualError(t, E("plain"), "plain")
}

func TestWrap(t *testing.T) {
	err := E(Truncated, "reading long at offset %d: %w", 12, io.ErrUnexpectedEOF)
	require.True(t, IsTruncated(err))
	assert.False(t, IsFormat(err))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	outer := fmt.Errorf("block 3: %w", err)
	assert.True(t, IsTruncated(outer))
	assert.Equal(t, Truncated, KindOf(outer))
	assert.Equal(t, Other, KindOf(errors.New("x")))
}

func TestNestedKinds(t *testing.T) {
	inner := E(Codec, "bad snappy checksum")
	outer := E(inner)
	assert.True(t, IsCodec(outer))
	assert.Equal(t, Other, KindOf(outer))
}

func TestBadArg(t *testing.T) {
	err := E(42)
	assert.Contains(t, err.Error(), "unknown type int value 42")
}
