package datum

import (
	"math/big"
	"testing"
	"time"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/binio"
	"github.com/brimdata/zavro/logical"
	"github.com/google/uuid"
	"github.com/hamba/avro/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roundTripSchema = `{
	"type": "record", "name": "Everything",
	"fields": [
		{"name": "b", "type": "boolean"},
		{"name": "i", "type": "int"},
		{"name": "l", "type": "long"},
		{"name": "f", "type": "float"},
		{"name": "d", "type": "double"},
		{"name": "by", "type": "bytes"},
		{"name": "s", "type": "string"},
		{"name": "arr", "type": {"type": "array", "items": "long"}},
		{"name": "m", "type": {"type": "map", "values": "string"}},
		{"name": "ts", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "tsu", "type": {"type": "long", "logicalType": "timestamp-micros"}},
		{"name": "day", "type": {"type": "int", "logicalType": "date"}},
		{"name": "dec", "type": {"type": "bytes", "logicalType": "decimal", "precision": 9, "scale": 2}},
		{"name": "id", "type": {"type": "string", "logicalType": "uuid"}},
		{"name": "tod", "type": {"type": "int", "logicalType": "time-millis"}}
	]
}`

func TestRoundTrip(t *testing.T) {
	schema, err := avro.Parse(roundTripSchema)
	require.NoError(t, err)
	ts := time.Date(2022, 6, 7, 8, 9, 10, 123456000, time.UTC)
	day := time.Date(2001, 9, 9, 0, 0, 0, 0, time.UTC)
	id := uuid.New()
	in := map[string]any{
		"b":   true,
		"i":   int32(-12),
		"l":   int64(1) << 50,
		"f":   float32(3.25),
		"d":   -1e300,
		"by":  []byte{0, 1, 2, 0xff},
		"s":   "héllo",
		"arr": []int64{1, -2, 3},
		"m":   map[string]string{"k": "v"},
		"ts":  ts,
		"tsu": ts,
		"day": day,
		"dec": big.NewRat(-123456789, 100),
		"id":  id.String(),
		"tod": 13*time.Hour + 14*time.Minute + 15*time.Second + 16*time.Millisecond,
	}
	b, err := avro.Marshal(schema, in)
	require.NoError(t, err)

	out, err := Read(binio.NewDecoder(b), zavro.MustParseSchema(roundTripSchema), nil, Options{})
	require.NoError(t, err)
	rec := out.(map[string]any)
	assert.Equal(t, true, rec["b"])
	assert.Equal(t, int32(-12), rec["i"])
	assert.Equal(t, int64(1)<<50, rec["l"])
	assert.Equal(t, float32(3.25), rec["f"])
	assert.Equal(t, -1e300, rec["d"])
	assert.Equal(t, []byte{0, 1, 2, 0xff}, rec["by"])
	assert.Equal(t, "héllo", rec["s"])
	assert.Equal(t, []any{int64(1), int64(-2), int64(3)}, rec["arr"])
	assert.Equal(t, map[string]any{"k": "v"}, rec["m"])
	assert.Equal(t, ts.Truncate(time.Millisecond), rec["ts"])
	assert.Equal(t, ts, rec["tsu"])
	assert.Equal(t, day, rec["day"])
	assert.True(t, decimal.RequireFromString("-1234567.89").Equal(rec["dec"].(decimal.Decimal)))
	assert.Equal(t, id, rec["id"])
	assert.Equal(t, logical.TimeOfDay{Hour: 13, Minute: 14, Second: 15, Microsecond: 16000}, rec["tod"])
}

func TestRoundTripEvolution(t *testing.T) {
	const writer = `{
	"type": "record", "name": "User",
	"fields": [
		{"name": "name", "type": "string"},
		{"name": "age", "type": "int"},
		{"name": "nick", "type": ["null", "string"]}
	]
}`
	const reader = `{
	"type": "record", "name": "User",
	"fields": [
		{"name": "fullname", "type": "string", "aliases": ["name"]},
		{"name": "age", "type": "double"},
		{"name": "nick", "type": ["null", "string", "int"]},
		{"name": "active", "type": "boolean", "default": true}
	]
}`
	schema, err := avro.Parse(writer)
	require.NoError(t, err)
	nick := "al"
	b, err := avro.Marshal(schema, struct {
		Name string  `avro:"name"`
		Age  int     `avro:"age"`
		Nick *string `avro:"nick"`
	}{"Alice", 30, &nick})
	require.NoError(t, err)
	out, err := Read(binio.NewDecoder(b), zavro.MustParseSchema(writer), zavro.MustParseSchema(reader), Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"fullname": "Alice",
		"age":      30.0,
		"nick":     "al",
		"active":   true,
	}, out)
}
