package zavro

import (
	"strconv"
	"strings"
)

// String methods produce the Avro parsing canonical form extended with
// logical type attributes, since those change what a decoder returns.
// Named types are written in full where they are defined and by name where
// they are referenced.

func (t *TypeOfPrimitive) String() string { return format(t, nil) }
func (t *TypeFixed) String() string       { return format(t, nil) }
func (t *TypeEnum) String() string        { return format(t, nil) }
func (t *TypeRecord) String() string      { return format(t, nil) }
func (t *TypeArray) String() string       { return format(t, nil) }
func (t *TypeMap) String() string         { return format(t, nil) }
func (t *TypeUnion) String() string       { return format(t, nil) }
func (t *TypeRef) String() string         { return quote(t.Name) }

// Expand is like String but writes the definition of each referenced named
// type the first time it is reached, so that two types with equal Expand
// forms decode identically even when they were parsed in different
// Contexts.
func Expand(typ Type) string {
	return format(typ, map[string]bool{})
}

func format(typ Type, seen map[string]bool) string {
	var b strings.Builder
	writeType(&b, typ, seen)
	return b.String()
}

func writeType(b *strings.Builder, typ Type, seen map[string]bool) {
	if named, ok := typ.(NamedType); ok && seen[named.FullName()] {
		b.WriteString(quote(named.FullName()))
		return
	}
	switch t := typ.(type) {
	case *TypeRef:
		if seen == nil || seen[t.Name] {
			b.WriteString(quote(t.Name))
			return
		}
		resolved, err := t.Resolve()
		if err != nil {
			b.WriteString(quote(t.Name))
			return
		}
		writeType(b, resolved, seen)
	case *TypeOfPrimitive:
		if t.Logical == nil {
			b.WriteString(quote(t.ID.String()))
			return
		}
		b.WriteString(`{"type":`)
		b.WriteString(quote(t.ID.String()))
		writeLogical(b, t.Logical)
		b.WriteByte('}')
	case *TypeFixed:
		writeName(b, &t.Named, seen)
		b.WriteString(`,"type":"fixed","size":`)
		b.WriteString(strconv.Itoa(t.Size))
		writeLogical(b, t.Logical)
		b.WriteByte('}')
	case *TypeEnum:
		writeName(b, &t.Named, seen)
		b.WriteString(`,"type":"enum","symbols":[`)
		for k, s := range t.Symbols {
			if k > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(s))
		}
		b.WriteString("]}")
	case *TypeRecord:
		writeName(b, &t.Named, seen)
		b.WriteString(`,"type":`)
		b.WriteString(quote(t.ID.String()))
		b.WriteString(`,"fields":[`)
		for k, f := range t.Fields {
			if k > 0 {
				b.WriteByte(',')
			}
			b.WriteString(`{"name":`)
			b.WriteString(quote(f.Name))
			b.WriteString(`,"type":`)
			writeType(b, f.Type, seen)
			b.WriteByte('}')
		}
		b.WriteString("]}")
	case *TypeArray:
		b.WriteString(`{"type":"array","items":`)
		writeType(b, t.Items, seen)
		b.WriteByte('}')
	case *TypeMap:
		b.WriteString(`{"type":"map","values":`)
		writeType(b, t.Values, seen)
		b.WriteByte('}')
	case *TypeUnion:
		if t.ID == KindErrorUnion {
			b.WriteString(`{"type":"error_union","types":`)
		}
		b.WriteByte('[')
		for k, branch := range t.Types {
			if k > 0 {
				b.WriteByte(',')
			}
			writeType(b, branch, seen)
		}
		b.WriteByte(']')
		if t.ID == KindErrorUnion {
			b.WriteByte('}')
		}
	}
}

func writeName(b *strings.Builder, n *Named, seen map[string]bool) {
	if seen != nil {
		seen[n.Name] = true
	}
	b.WriteString(`{"name":`)
	b.WriteString(quote(n.Name))
}

func writeLogical(b *strings.Builder, l *Logical) {
	if l == nil {
		return
	}
	b.WriteString(`,"logicalType":`)
	b.WriteString(quote(l.Name))
	if l.Name == "decimal" {
		b.WriteString(`,"precision":`)
		b.WriteString(strconv.Itoa(l.Precision))
		b.WriteString(`,"scale":`)
		b.WriteString(strconv.Itoa(l.Scale))
	}
}

func quote(s string) string {
	// Avro names are ASCII identifiers, for which Go and JSON quoting
	// agree.
	return strconv.Quote(s)
}
