package avroio

import (
	"bytes"
	"sync"
	"testing"

	"github.com/brimdata/zavro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBlocks(t *testing.T, b []byte) []*Block {
	t.Helper()
	br, err := NewBlockReader(bytes.NewReader(b), ReaderOpts{})
	require.NoError(t, err)
	var blocks []*Block
	for {
		blk, err := br.Next()
		require.NoError(t, err)
		if blk == nil {
			return blocks
		}
		blocks = append(blocks, blk)
	}
}

func TestBlockReader(t *testing.T) {
	c := newContainer(t, recordSchema, "xz").events(0, 2).events(2, 3)
	br, err := NewBlockReader(bytes.NewReader(c.bytes()), ReaderOpts{})
	require.NoError(t, err)
	assert.Equal(t, "xz", br.Codec())
	assert.Equal(t, zavro.KindRecord, br.WriterSchema().Kind())
	assert.Contains(t, br.Metadata(), SchemaKey)

	first, err := br.Next()
	require.NoError(t, err)
	assert.EqualValues(t, 2, first.NumRecords)
	assert.Equal(t, "xz", first.Codec)
	assert.EqualValues(t, headerLenFor(t, "xz"), first.Offset)
	assert.EqualValues(t, c.syncs[0]+SyncSize, first.Offset+first.Size)

	second, err := br.Next()
	require.NoError(t, err)
	assert.Equal(t, first.Offset+first.Size, second.Offset)
	assert.EqualValues(t, len(c.bytes()), second.Offset+second.Size)

	blk, err := br.Next()
	require.NoError(t, err)
	assert.Nil(t, blk)
	assert.EqualValues(t, 2, br.Stats().BlocksRead)
	assert.Zero(t, br.Stats().RecordsRead)

	vals, err := second.Decode()
	require.NoError(t, err)
	assert.Equal(t, events(2, 3), vals)
}

func headerLenFor(t *testing.T, codec string) int {
	t.Helper()
	return len(newContainer(t, recordSchema, codec).bytes())
}

func TestBlockIndependence(t *testing.T) {
	c := newContainer(t, recordSchema, "snappy")
	for k := 0; k < 6; k++ {
		c.events(k*4, 4)
	}
	r, err := NewReader(bytes.NewReader(c.bytes()), ReaderOpts{})
	require.NoError(t, err)
	expected, err := readAll(t, r)
	require.NoError(t, err)

	var flattened []any
	for _, blk := range readBlocks(t, c.bytes()) {
		vals, err := blk.Decode()
		require.NoError(t, err)
		flattened = append(flattened, vals...)
	}
	assert.Equal(t, expected, flattened)
	assert.Equal(t, events(0, 24), flattened)
}

func TestBlockConcurrentDecode(t *testing.T) {
	c := newContainer(t, recordSchema, "lz4")
	for k := 0; k < 8; k++ {
		c.events(k*10, 10)
	}
	blocks := readBlocks(t, c.bytes())
	results := make([][]any, len(blocks))
	var wg sync.WaitGroup
	for k, blk := range blocks {
		wg.Add(1)
		go func(k int, blk *Block) {
			defer wg.Done()
			vals, err := blk.Decode()
			assert.NoError(t, err)
			results[k] = vals
		}(k, blk)
	}
	wg.Wait()
	for k, vals := range results {
		assert.Equal(t, events(k*10, 10), vals)
	}
}

// A Block decodes from the start of its buffer on every pass.
func TestBlockReiteration(t *testing.T) {
	c := newContainer(t, recordSchema, "deflate").events(0, 5)
	blocks := readBlocks(t, c.bytes())
	require.Len(t, blocks, 1)
	blk := blocks[0]

	first, err := blk.Decode()
	require.NoError(t, err)
	second, err := blk.Decode()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Interleaved passes do not disturb each other.
	r1, r2 := blk.Reader(), blk.Reader()
	v1, err := r1.Read()
	require.NoError(t, err)
	v2, err := r2.Read()
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	v1, err = r1.Read()
	require.NoError(t, err)
	assert.Equal(t, event(1), v1.Data)
}

func TestBlockReaderSchema(t *testing.T) {
	c := newContainer(t, recordSchema, "").events(7, 1)
	reader := zavro.MustParseSchema(`{"type": "record", "name": "test.Event", "fields": [{"name": "id", "type": "float"}]}`)
	br, err := NewBlockReader(bytes.NewReader(c.bytes()), ReaderOpts{ReaderSchema: reader})
	require.NoError(t, err)
	assert.Equal(t, reader, br.ReaderSchema())
	blk, err := br.Next()
	require.NoError(t, err)
	assert.Equal(t, reader, blk.ReaderSchema)
	vals, err := blk.Decode()
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": float32(7)}}, vals)
}
