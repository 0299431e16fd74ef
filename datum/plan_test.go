package datum

import (
	"encoding/binary"
	"testing"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/binio"
	"github.com/brimdata/zavro/pkg/test"
	"github.com/brimdata/zavro/zqe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widePointSchema = `{
	"type": "record", "name": "Point",
	"fields": [
		{"name": "a", "type": "long"},
		{"name": "tag", "type": "string"},
		{"name": "z", "type": "int", "default": 0}
	]
}`

func TestCacheShared(t *testing.T) {
	cache := NewCache(0)
	writer := zavro.MustParseSchema(pointSchema)
	reader := zavro.MustParseSchema(widePointSchema)
	for i := 0; i < 3; i++ {
		v, err := Read(binio.NewDecoder(test.Hex(t, pointHex)), writer, reader, Options{Cache: cache})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": int64(1), "tag": "xy", "z": int32(0)}, v)
	}
	n := cache.Len()
	assert.Positive(t, n)
	_, err := Read(binio.NewDecoder(test.Hex(t, pointHex)), writer, reader, Options{Cache: cache})
	require.NoError(t, err)
	assert.Equal(t, n, cache.Len())
}

func TestCacheBounded(t *testing.T) {
	cache := NewCache(8)
	for i := 0; i < 200; i++ {
		writer := zavro.MustParseSchema(pointSchema)
		reader := zavro.MustParseSchema(widePointSchema)
		_, err := Read(binio.NewDecoder(test.Hex(t, pointHex)), writer, reader, Options{Cache: cache})
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, cache.Len(), 16)
}

func TestReadWithoutCache(t *testing.T) {
	opts := Options{}
	_, err := Read(binio.NewDecoder(test.Hex(t, pointHex)), zavro.MustParseSchema(pointSchema), zavro.MustParseSchema(widePointSchema), opts)
	require.NoError(t, err)
	assert.Nil(t, opts.Cache)
}

func TestHugeNullArray(t *testing.T) {
	dec := binio.NewDecoder(binary.AppendVarint(nil, 1<<62))
	_, err := Read(dec, zavro.MustParseSchema(`{"type": "array", "items": "null"}`), nil, Options{})
	require.Error(t, err)
	assert.True(t, zqe.IsFormat(err), "%v", err)
}
