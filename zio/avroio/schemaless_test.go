package avroio

import (
	"bytes"
	"testing"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/datum"
	"github.com/brimdata/zavro/pkg/test"
	"github.com/brimdata/zavro/zqe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaless(t *testing.T) {
	writer := zavro.MustParseSchema(recordSchema)
	b := test.Hex(t, `
		54                      # id 42
		0e 65 76 65 6e 74 20 71 # msg "event q"
	`)
	val, err := SchemalessReader(bytes.NewReader(b), writer, nil, datum.Options{})
	require.NoError(t, err)
	assert.Equal(t, event(42), val)

	val, err = Decode(b, writer, nil, datum.Options{})
	require.NoError(t, err)
	assert.Equal(t, event(42), val)

	reader := zavro.MustParseSchema(`{"type": "record", "name": "test.Event", "fields": [{"name": "id", "type": "long"}]}`)
	val, err = SchemalessReader(bytes.NewReader(b), writer, reader, datum.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": int64(42)}, val)
}

func TestSchemalessTruncated(t *testing.T) {
	writer := zavro.MustParseSchema(recordSchema)
	_, err := SchemalessReader(bytes.NewReader(test.Hex(t, "54 0e 65 76")), writer, nil, datum.Options{})
	assert.True(t, zqe.IsTruncated(err), "%v", err)
	assert.Contains(t, err.Error(), "string")
	_, err = Decode(nil, writer, nil, datum.Options{})
	assert.True(t, zqe.IsTruncated(err), "%v", err)
}

func TestDatumReader(t *testing.T) {
	writer := zavro.MustParseSchema(recordSchema)
	var b []byte
	for id := int64(0); id < 3; id++ {
		b = appendEvent(b, id)
	}
	r := NewDatumReader(bytes.NewReader(b), writer, nil, datum.Options{})
	for id := int64(0); id < 3; id++ {
		val, err := r.Read()
		require.NoError(t, err)
		require.NotNil(t, val)
		assert.Equal(t, event(id), val.Data)
		assert.Equal(t, writer, val.Type)
	}
	val, err := r.Read()
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestDatumReaderTruncated(t *testing.T) {
	writer := zavro.MustParseSchema(recordSchema)
	b := appendEvent(nil, 1)
	b = append(b, 0x02)
	r := NewDatumReader(bytes.NewReader(b), writer, nil, datum.Options{})
	_, err := r.Read()
	require.NoError(t, err)
	_, err = r.Read()
	assert.True(t, zqe.IsTruncated(err), "%v", err)
	assert.Contains(t, err.Error(), "datum 1")
	_, err2 := r.Read()
	assert.Equal(t, err, err2)
}

func TestDatumReaderZeroLength(t *testing.T) {
	r := NewDatumReader(bytes.NewReader([]byte{0}), zavro.MustParseSchema(`"null"`), nil, datum.Options{})
	_, err := r.Read()
	assert.True(t, zqe.IsInvalid(err), "%v", err)
}
