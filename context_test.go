package zavro

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextDuplicateName(t *testing.T) {
	zctx := NewContext()
	_, err := zctx.ParseSchema([]byte(`{"type": "fixed", "name": "a.Hash", "size": 4}`))
	require.NoError(t, err)
	_, err = zctx.ParseSchema([]byte(`{"type": "enum", "name": "Hash", "namespace": "a", "symbols": ["X"]}`))
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = NewContext().ParseSchema([]byte(`{
		"type": "record", "name": "R", "fields": [
			{"name": "x", "type": {"type": "fixed", "name": "F", "size": 1}},
			{"name": "y", "type": {"type": "fixed", "name": "G", "aliases": ["F"], "size": 1}}
		]
	}`))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestContextsAreIndependent(t *testing.T) {
	const schema = `{"type": "record", "name": "Event", "fields": [{"name": "id", "type": "long"}]}`
	a, b := NewContext(), NewContext()
	ta, err := a.ParseSchema([]byte(schema))
	require.NoError(t, err)
	tb, err := b.ParseSchema([]byte(schema))
	require.NoError(t, err)
	assert.NotSame(t, ta, tb)
	assert.Same(t, ta, a.Lookup("Event"))
	assert.Same(t, tb, b.Lookup("Event"))
	assert.Nil(t, NewContext().Lookup("Event"))
}

func TestContextConcurrentLookup(t *testing.T) {
	zctx := NewContext()
	_, err := zctx.ParseSchema([]byte(`{"type": "enum", "name": "x.Color", "symbols": ["RED"]}`))
	require.NoError(t, err)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.NotNil(t, zctx.Lookup("x.Color"))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"x.Color"}, zctx.Names())
}
