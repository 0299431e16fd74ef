package jsonio

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/logical"
	"github.com/brimdata/zavro/pkg/test"
	"github.com/brimdata/zavro/zio"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	vals := []any{
		map[string]any{
			"bytes":   []byte{0x00, 'a', 0xff},
			"when":    time.Date(2021, 3, 4, 5, 6, 7, 8000, time.UTC),
			"amount":  decimal.New(-12345, -2),
			"id":      uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
			"clock":   logical.TimeOfDay{Hour: 1, Minute: 2, Second: 3, Microsecond: 4},
			"nan":     math.NaN(),
			"inf":     float32(math.Inf(-1)),
			"list":    []any{int32(1), nil, "x"},
			"branch":  zavro.NamedValue{Name: "test.Ping", Value: map[string]any{"n": int64(1)}},
			"boolean": true,
		},
		"plain",
	}
	var buf bytes.Buffer
	w := NewWriter(zio.NopCloser(&buf), WriterOpts{})
	for _, v := range vals {
		require.NoError(t, w.Write(&zavro.Value{Data: v}))
	}
	require.NoError(t, w.Close())
	expected := `
{"amount":"-123.45","boolean":true,"branch":{"test.Ping":{"n":1}},"bytes":"\u0000aÿ","clock":"01:02:03.000004","id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","inf":"-Infinity","list":[1,null,"x"],"nan":"NaN","when":"2021-03-04T05:06:07.000008Z"}
"plain"
`
	assert.Equal(t, test.Trim(expected), buf.String())
}

func TestWriterPretty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(zio.NopCloser(&buf), WriterOpts{Pretty: 2})
	require.NoError(t, w.Write(&zavro.Value{Data: map[string]any{"a": int64(1)}}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
