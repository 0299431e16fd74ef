package zavro

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var errDefault = errors.New("default does not match type")

// ConvertDefault converts a default value from its JSON form, as decoded
// with json.Decoder.UseNumber, to the Go value a decoder would produce for
// typ.  Logical types are not applied.
func ConvertDefault(typ Type, raw any) (any, error) {
	typ, err := Deref(typ)
	if err != nil {
		return nil, err
	}
	switch typ := typ.(type) {
	case *TypeOfPrimitive:
		return convertPrimitive(typ.ID, raw)
	case *TypeFixed:
		b, err := codePoints(raw)
		if err != nil {
			return nil, err
		}
		if len(b) != typ.Size {
			return nil, fmt.Errorf("%w: fixed %s needs %d bytes", errDefault, typ.Name, typ.Size)
		}
		return b, nil
	case *TypeEnum:
		s, ok := raw.(string)
		if !ok || typ.Lookup(s) < 0 {
			return nil, fmt.Errorf("%w: %v is not a symbol of %s", errDefault, raw, typ.Name)
		}
		return s, nil
	case *TypeArray:
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: array", errDefault)
		}
		out := make([]any, 0, len(list))
		for _, elem := range list {
			v, err := ConvertDefault(typ.Items, elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *TypeMap:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: map", errDefault)
		}
		out := make(map[string]any, len(m))
		for key, elem := range m {
			v, err := ConvertDefault(typ.Values, elem)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	case *TypeRecord:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: record %s", errDefault, typ.Name)
		}
		out := make(map[string]any, len(typ.Fields))
		for _, f := range typ.Fields {
			elem, ok := m[f.Name]
			if !ok {
				if !f.HasDefault {
					return nil, fmt.Errorf("%w: record %s missing field %q", errDefault, typ.Name, f.Name)
				}
				out[f.Name] = CopyDefault(f.Default)
				continue
			}
			v, err := ConvertDefault(f.Type, elem)
			if err != nil {
				return nil, err
			}
			out[f.Name] = v
		}
		return out, nil
	case *TypeUnion:
		// Avro pins union defaults to the first branch but
		// writers disagree, so accept the first branch that fits.
		for _, branch := range typ.Types {
			if v, err := ConvertDefault(branch, raw); err == nil {
				return v, nil
			}
		}
		return nil, fmt.Errorf("%w: no union branch accepts %v", errDefault, raw)
	}
	return nil, fmt.Errorf("%w: %s", errDefault, typ)
}

func convertPrimitive(k Kind, raw any) (any, error) {
	switch k {
	case KindNull:
		if raw == nil {
			return nil, nil
		}
	case KindBoolean:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case KindInt:
		if n, ok := raw.(json.Number); ok {
			if i, err := n.Int64(); err == nil && i >= math.MinInt32 && i <= math.MaxInt32 {
				return int32(i), nil
			}
		}
	case KindLong:
		if n, ok := raw.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
		}
	case KindFloat:
		if n, ok := raw.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				return float32(f), nil
			}
		}
	case KindDouble:
		if n, ok := raw.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				return f, nil
			}
		}
	case KindBytes:
		return codePoints(raw)
	case KindString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s default %v", errDefault, k, raw)
}

// codePoints converts the JSON encoding of bytes, a string whose code
// points 0-255 are the byte values.
func codePoints(raw any) ([]byte, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: bytes default must be a string", errDefault)
	}
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, fmt.Errorf("%w: code point %U out of byte range", errDefault, r)
		}
		b = append(b, byte(r))
	}
	return b, nil
}

// CopyDefault returns a deep copy of a converted default so that callers
// may modify decoded values without affecting the schema.
func CopyDefault(v any) any {
	switch v := v.(type) {
	case []byte:
		return append([]byte{}, v...)
	case []any:
		out := make([]any, len(v))
		for k, elem := range v {
			out[k] = CopyDefault(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			out[key] = CopyDefault(elem)
		}
		return out
	}
	return v
}
