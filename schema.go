package zavro

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrBadSchema = errors.New("bad schema")

// ParseSchema parses the JSON text of an Avro schema into a new Context.
func ParseSchema(b []byte) (Type, error) {
	return NewContext().ParseSchema(b)
}

// MustParseSchema is like ParseSchema but panics on error.  It is intended
// for schemas compiled into a program.
func MustParseSchema(s string) Type {
	typ, err := ParseSchema([]byte(s))
	if err != nil {
		panic(err)
	}
	return typ
}

// ParseSchema parses the JSON text of an Avro schema, registering its named
// types in c.
func (c *Context) ParseSchema(b []byte) (Type, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadSchema, err)
	}
	p := &parser{zctx: c}
	typ, err := p.parse(v, "")
	if err != nil {
		return nil, err
	}
	// Defaults are converted once every named type is known so that a
	// default may refer to a type declared later in the schema.
	for _, d := range p.defaults {
		field := &d.record.Fields[d.index]
		val, err := ConvertDefault(field.Type, d.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: default for field %q of %s: %s", ErrBadSchema, field.Name, d.record.Name, err)
		}
		field.Default = val
	}
	return typ, nil
}

type parser struct {
	zctx     *Context
	defaults []pendingDefault
}

type pendingDefault struct {
	record *TypeRecord
	index  int
	raw    any
}

func badSchema(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadSchema, fmt.Sprintf(format, args...))
}

func (p *parser) parse(v any, namespace string) (Type, error) {
	switch v := v.(type) {
	case string:
		return p.parseName(v, namespace)
	case []any:
		return p.parseUnion(KindUnion, v, namespace)
	case map[string]any:
		return p.parseObject(v, namespace)
	}
	return nil, badSchema("unexpected JSON value %v", v)
}

func (p *parser) parseName(name, namespace string) (Type, error) {
	if k, ok := LookupKind(name); ok {
		if typ := LookupPrimitive(k); typ != nil {
			return typ, nil
		}
		return nil, badSchema("%q is not a primitive type", name)
	}
	full := qualify(name, namespace)
	if p.zctx.Lookup(full) != nil {
		return &TypeRef{Name: full, zctx: p.zctx}, nil
	}
	if full != name && p.zctx.Lookup(name) != nil {
		return &TypeRef{Name: name, zctx: p.zctx}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, full)
}

func (p *parser) parseUnion(id Kind, branches []any, namespace string) (Type, error) {
	u := &TypeUnion{ID: id}
	for _, b := range branches {
		typ, err := p.parse(b, namespace)
		if err != nil {
			return nil, err
		}
		if typ.Kind() == KindUnion {
			return nil, badSchema("union may not immediately contain a union")
		}
		u.Types = append(u.Types, typ)
	}
	return u, nil
}

func (p *parser) parseObject(m map[string]any, namespace string) (Type, error) {
	switch t := m["type"].(type) {
	case []any, map[string]any:
		return p.parse(t, namespace)
	case string:
		k, ok := LookupKind(t)
		if !ok {
			return p.parseName(t, namespace)
		}
		switch k {
		case KindFixed:
			return p.parseFixed(m, namespace)
		case KindEnum:
			return p.parseEnum(m, namespace)
		case KindRecord, KindError, KindRequest:
			return p.parseRecord(k, m, namespace)
		case KindArray:
			items, ok := m["items"]
			if !ok {
				return nil, badSchema("array missing items")
			}
			typ, err := p.parse(items, namespace)
			if err != nil {
				return nil, err
			}
			return &TypeArray{Items: typ}, nil
		case KindMap:
			values, ok := m["values"]
			if !ok {
				return nil, badSchema("map missing values")
			}
			typ, err := p.parse(values, namespace)
			if err != nil {
				return nil, err
			}
			return &TypeMap{Values: typ}, nil
		case KindUnion, KindErrorUnion:
			types, ok := m["types"].([]any)
			if !ok {
				return nil, badSchema("%s missing types", t)
			}
			return p.parseUnion(k, types, namespace)
		}
		logical, err := parseLogical(m)
		if err != nil {
			return nil, err
		}
		if logical == nil {
			return LookupPrimitive(k), nil
		}
		return &TypeOfPrimitive{ID: k, Logical: logical}, nil
	}
	return nil, badSchema("missing or invalid type attribute")
}

func parseLogical(m map[string]any) (*Logical, error) {
	name, ok := m["logicalType"].(string)
	if !ok {
		return nil, nil
	}
	l := &Logical{Name: name}
	var err error
	if l.Precision, err = optInt(m, "precision"); err != nil {
		return nil, err
	}
	if l.Scale, err = optInt(m, "scale"); err != nil {
		return nil, err
	}
	return l, nil
}

func optInt(m map[string]any, key string) (int, error) {
	v, ok := m[key]
	if !ok {
		return 0, nil
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, badSchema("%s must be a number", key)
	}
	i, err := n.Int64()
	if err != nil || i < 0 {
		return 0, badSchema("%s must be a non-negative integer", key)
	}
	return int(i), nil
}

func (p *parser) parseNamed(m map[string]any, namespace string) (Named, string, error) {
	name, ok := m["name"].(string)
	if !ok || name == "" {
		return Named{}, "", badSchema("named type missing name")
	}
	if ns, ok := m["namespace"].(string); ok && !strings.Contains(name, ".") {
		namespace = ns
	}
	full := qualify(name, namespace)
	if k := strings.LastIndexByte(full, '.'); k >= 0 {
		namespace = full[:k]
	} else {
		namespace = ""
	}
	aliases, err := stringList(m, "aliases")
	if err != nil {
		return Named{}, "", err
	}
	for k := range aliases {
		aliases[k] = qualify(aliases[k], namespace)
	}
	return Named{Name: full, Aliases: aliases}, namespace, nil
}

func (p *parser) parseFixed(m map[string]any, namespace string) (Type, error) {
	named, _, err := p.parseNamed(m, namespace)
	if err != nil {
		return nil, err
	}
	size, err := optInt(m, "size")
	if err != nil {
		return nil, err
	}
	if _, ok := m["size"]; !ok {
		return nil, badSchema("fixed %s missing size", named.Name)
	}
	logical, err := parseLogical(m)
	if err != nil {
		return nil, err
	}
	typ := &TypeFixed{Named: named, Size: size, Logical: logical}
	if err := p.zctx.Register(typ); err != nil {
		return nil, err
	}
	return typ, nil
}

func (p *parser) parseEnum(m map[string]any, namespace string) (Type, error) {
	named, _, err := p.parseNamed(m, namespace)
	if err != nil {
		return nil, err
	}
	symbols, err := stringList(m, "symbols")
	if err != nil {
		return nil, err
	}
	typ := &TypeEnum{Named: named, Symbols: symbols}
	if v, ok := m["default"]; ok {
		s, ok := v.(string)
		if !ok || typ.Lookup(s) < 0 {
			return nil, badSchema("enum %s default %v is not a symbol", named.Name, v)
		}
		typ.Default = s
		typ.HasDefault = true
	}
	if err := p.zctx.Register(typ); err != nil {
		return nil, err
	}
	return typ, nil
}

func (p *parser) parseRecord(id Kind, m map[string]any, namespace string) (Type, error) {
	named, namespace, err := p.parseNamed(m, namespace)
	if err != nil {
		return nil, err
	}
	typ := &TypeRecord{Named: named, ID: id}
	// Register before parsing fields so fields may refer to the record.
	if err := p.zctx.Register(typ); err != nil {
		return nil, err
	}
	fields, ok := m["fields"].([]any)
	if !ok {
		return nil, badSchema("record %s missing fields", named.Name)
	}
	for _, f := range fields {
		fm, ok := f.(map[string]any)
		if !ok {
			return nil, badSchema("record %s has a malformed field", named.Name)
		}
		name, ok := fm["name"].(string)
		if !ok {
			return nil, badSchema("record %s has a field without a name", named.Name)
		}
		if typ.LookupField(name) >= 0 {
			return nil, badSchema("record %s has duplicate field %q", named.Name, name)
		}
		ftyp, err := p.parse(fm["type"], namespace)
		if err != nil {
			return nil, err
		}
		aliases, err := stringList(fm, "aliases")
		if err != nil {
			return nil, err
		}
		field := Field{Name: name, Type: ftyp, Aliases: aliases}
		if raw, ok := fm["default"]; ok {
			field.HasDefault = true
			p.defaults = append(p.defaults, pendingDefault{typ, len(typ.Fields), raw})
		}
		typ.Fields = append(typ.Fields, field)
	}
	return typ, nil
}

func stringList(m map[string]any, key string) ([]string, error) {
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, badSchema("%s must be a list of strings", key)
	}
	out := make([]string, 0, len(list))
	for _, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, badSchema("%s must be a list of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

func qualify(name, namespace string) string {
	if namespace == "" || strings.Contains(name, ".") {
		return name
	}
	return namespace + "." + name
}
