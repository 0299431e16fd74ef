package resolver

import (
	"testing"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/zqe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotions(t *testing.T) {
	kinds := []zavro.Kind{
		zavro.KindNull, zavro.KindBoolean, zavro.KindInt, zavro.KindLong,
		zavro.KindFloat, zavro.KindDouble, zavro.KindBytes, zavro.KindString,
	}
	allowed := map[[2]zavro.Kind]bool{
		{zavro.KindInt, zavro.KindLong}:     true,
		{zavro.KindInt, zavro.KindFloat}:    true,
		{zavro.KindInt, zavro.KindDouble}:   true,
		{zavro.KindLong, zavro.KindFloat}:   true,
		{zavro.KindLong, zavro.KindDouble}:  true,
		{zavro.KindFloat, zavro.KindDouble}: true,
		{zavro.KindString, zavro.KindBytes}: true,
		{zavro.KindBytes, zavro.KindString}: true,
	}
	for _, w := range kinds {
		for _, r := range kinds {
			expected := w == r || allowed[[2]zavro.Kind{w, r}]
			assert.Equal(t, expected, Match(zavro.LookupPrimitive(w), zavro.LookupPrimitive(r)), "%s -> %s", w, r)
		}
	}
}

func TestUnionDeferred(t *testing.T) {
	u := zavro.MustParseSchema(`["null", "string"]`)
	assert.True(t, Match(u, zavro.TypeInt))
	assert.True(t, Match(zavro.TypeBoolean, u))
}

func TestContainers(t *testing.T) {
	intArray := zavro.MustParseSchema(`{"type": "array", "items": "int"}`)
	longArray := zavro.MustParseSchema(`{"type": "array", "items": "long"}`)
	stringMap := zavro.MustParseSchema(`{"type": "map", "values": "string"}`)
	bytesMap := zavro.MustParseSchema(`{"type": "map", "values": "bytes"}`)
	assert.True(t, Match(intArray, longArray))
	assert.False(t, Match(longArray, intArray))
	assert.True(t, Match(stringMap, bytesMap))
	assert.False(t, Match(stringMap, intArray))
	assert.False(t, Match(intArray, zavro.TypeInt))
}

func TestMatchSchemasError(t *testing.T) {
	_, err := MatchSchemas(zavro.TypeNull, zavro.TypeString)
	require.Error(t, err)
	assert.True(t, zqe.IsResolution(err))
	assert.Contains(t, err.Error(), `"null" is not "string"`)
	typ, err := MatchSchemas(zavro.TypeInt, zavro.TypeDouble)
	require.NoError(t, err)
	assert.Same(t, zavro.TypeDouble, typ)
}

func TestResolveUnion(t *testing.T) {
	reader := zavro.MustParseSchema(`[
	"null",
	{"type": "record", "name": "A", "fields": []},
	{"type": "record", "name": "B", "aliases": ["OldB"], "fields": []},
	"string"
]`).(*zavro.TypeUnion)
	// Reader order decides, not names.
	for _, name := range []string{"A", "B", "OldB", "C"} {
		writer := zavro.MustParseSchema(`{"type": "record", "name": "` + name + `", "fields": []}`)
		branch, err := ResolveUnion(writer, reader)
		require.NoError(t, err)
		assert.Equal(t, "A", zavro.TypeName(branch), name)
	}

	branch, err := ResolveUnion(zavro.TypeInt, zavro.MustParseSchema(`["null", "string", "long", "int"]`).(*zavro.TypeUnion))
	require.NoError(t, err)
	assert.Equal(t, zavro.KindLong, branch.Kind())

	branch, err = ResolveUnion(zavro.TypeString, reader)
	require.NoError(t, err)
	assert.Equal(t, zavro.KindString, branch.Kind())

	_, err = ResolveUnion(zavro.TypeBoolean, reader)
	assert.True(t, zqe.IsResolution(err))
}

func TestFixedSize(t *testing.T) {
	f2 := zavro.MustParseSchema(`{"type": "fixed", "name": "F", "size": 2}`)
	f3 := zavro.MustParseSchema(`{"type": "fixed", "name": "F", "size": 3}`)
	assert.True(t, Match(f2, f2))
	assert.False(t, Match(f2, f3))
}

func TestRefs(t *testing.T) {
	rec := zavro.MustParseSchema(`{"type": "record", "name": "R", "fields": [
		{"name": "a", "type": {"type": "enum", "name": "E", "symbols": ["X"]}},
		{"name": "b", "type": "E"}
	]}`).(*zavro.TypeRecord)
	assert.True(t, Match(rec.Fields[1].Type, rec.Fields[0].Type))
}
