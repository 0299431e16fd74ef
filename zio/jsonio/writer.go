// Package jsonio writes decoded Avro values as JSON, one value per line.
package jsonio

import (
	"encoding/json"
	"io"
	"math"
	"strings"
	"time"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/logical"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WriterOpts struct {
	// Pretty indents each value by this many spaces.
	Pretty int
}

type Writer struct {
	io.Closer
	encoder *json.Encoder
}

func NewWriter(wc io.WriteCloser, opts WriterOpts) *Writer {
	encoder := json.NewEncoder(wc)
	encoder.SetEscapeHTML(false)
	if opts.Pretty > 0 {
		encoder.SetIndent("", strings.Repeat(" ", opts.Pretty))
	}
	return &Writer{
		Closer:  wc,
		encoder: encoder,
	}
}

func (w *Writer) Write(val *zavro.Value) error {
	return w.encoder.Encode(Marshal(val.Data))
}

// Marshal converts a decoded value into a tree that encoding/json renders
// the way Avro's JSON encoding does.  Bytes become a string with one code
// point per byte.  A union branch tagged with its record name becomes an
// object with that name as its only key.  Times, decimals, and UUIDs
// become strings, as do non-finite floats.
func Marshal(v any) any {
	switch v := v.(type) {
	case []byte:
		return bytesString(v)
	case float32:
		return marshalFloat(float64(v), v)
	case float64:
		return marshalFloat(v, v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case decimal.Decimal:
		return v.String()
	case uuid.UUID:
		return v.String()
	case logical.TimeOfDay:
		return v.String()
	case zavro.NamedValue:
		return map[string]any{v.Name: Marshal(v.Value)}
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = Marshal(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for k, val := range v {
			out[k] = Marshal(val)
		}
		return out
	}
	return v
}

func marshalFloat(f float64, v any) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return v
}

func bytesString(b []byte) string {
	var s strings.Builder
	for _, c := range b {
		s.WriteRune(rune(c))
	}
	return s.String()
}
