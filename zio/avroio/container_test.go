package avroio

import (
	"encoding/binary"
	"testing"

	"github.com/brimdata/zavro/pkg/test"
)

var testSync = [SyncSize]byte{
	0x10, 0x21, 0x32, 0x43, 0x54, 0x65, 0x76, 0x87,
	0x98, 0xa9, 0xba, 0xcb, 0xdc, 0xed, 0xfe, 0x0f,
}

const recordSchema = `{
	"type": "record",
	"name": "Event",
	"namespace": "test",
	"fields": [
		{"name": "id", "type": "long"},
		{"name": "msg", "type": "string"}
	]
}`

// container builds an object container file one block at a time.
type container struct {
	t     testing.TB
	codec string
	buf   []byte
	// syncs holds the offset of each block's sync marker.
	syncs []int
}

func newContainer(t testing.TB, schema, codec string, extra ...string) *container {
	c := &container{t: t, codec: codec}
	c.buf = append(c.buf, Magic...)
	meta := []string{SchemaKey, schema}
	if codec != "" {
		meta = append(meta, CodecKey, codec)
	}
	meta = append(meta, extra...)
	c.buf = binary.AppendVarint(c.buf, int64(len(meta)/2))
	for _, s := range meta {
		c.buf = appendString(c.buf, s)
	}
	c.buf = append(c.buf, 0)
	c.buf = append(c.buf, testSync[:]...)
	return c
}

// block appends a block holding count records whose encodings are
// concatenated in data.
func (c *container) block(count int, data []byte) *container {
	return c.raw(count, test.Compress(c.t, c.codec, data))
}

// raw appends a block with an already compressed payload.
func (c *container) raw(count int, payload []byte) *container {
	c.buf = binary.AppendVarint(c.buf, int64(count))
	c.buf = binary.AppendVarint(c.buf, int64(len(payload)))
	c.buf = append(c.buf, payload...)
	c.syncs = append(c.syncs, len(c.buf))
	c.buf = append(c.buf, testSync[:]...)
	return c
}

// events appends a block of records of recordSchema numbered from first.
func (c *container) events(first, count int) *container {
	var data []byte
	for k := first; k < first+count; k++ {
		data = appendEvent(data, int64(k))
	}
	return c.block(count, data)
}

func (c *container) bytes() []byte {
	return c.buf
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendVarint(b, int64(len(s)))
	return append(b, s...)
}

func appendEvent(b []byte, id int64) []byte {
	b = binary.AppendVarint(b, id)
	return appendString(b, eventMsg(id))
}

func eventMsg(id int64) string {
	return "event " + string(rune('a'+id%26))
}

func event(id int64) map[string]any {
	return map[string]any{"id": id, "msg": eventMsg(id)}
}
