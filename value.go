package zavro

// Value is a decoded Avro datum along with the schema it was decoded
// against, which is the reader schema when one was given.
//
// Data holds nil, bool, int32, int64, float32, float64, []byte, string,
// []any, map[string]any, NamedValue, or one of the logical types of package
// logical.  Records decode to map[string]any keyed by field name.
type Value struct {
	Type Type
	Data any
}

// NamedValue is the result of decoding a union branch of a named type when
// the caller asked for record names.
type NamedValue struct {
	Name  string
	Value any
}
