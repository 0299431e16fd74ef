// Package zavro implements the Avro type system used by the readers in this
// module.  Schemas are parsed into a closed set of Type variants, one per
// Avro kind, so that decoders can dispatch with a switch on Kind.  Named
// types are registered in a Context, which is owned by the schema it was
// parsed for rather than shared process-wide.
package zavro

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType   = errors.New("unknown type")
	ErrDuplicateName = errors.New("duplicate type name")
)

// Kind identifies an Avro schema kind.  The set is closed.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBytes
	KindString
	KindFixed
	KindEnum
	KindRecord
	KindError
	KindRequest
	KindArray
	KindMap
	KindUnion
	KindErrorUnion
	// KindRef is a by-name reference to a named type registered in a
	// Context.
	KindRef
)

var kindNames = [...]string{
	KindNull:       "null",
	KindBoolean:    "boolean",
	KindInt:        "int",
	KindLong:       "long",
	KindFloat:      "float",
	KindDouble:     "double",
	KindBytes:      "bytes",
	KindString:     "string",
	KindFixed:      "fixed",
	KindEnum:       "enum",
	KindRecord:     "record",
	KindError:      "error",
	KindRequest:    "request",
	KindArray:      "array",
	KindMap:        "map",
	KindUnion:      "union",
	KindErrorUnion: "error_union",
	KindRef:        "ref",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive is true for the eight Avro primitive kinds.
func (k Kind) IsPrimitive() bool {
	return k >= KindNull && k <= KindString
}

// LookupKind returns the Kind for an Avro type name.  Only the fixed set of
// kind names is recognized; any other name is a named-type reference.
func LookupKind(name string) (Kind, bool) {
	for k, s := range kindNames {
		if s == name && Kind(k) != KindRef {
			return Kind(k), true
		}
	}
	return 0, false
}

// A Type is a parsed Avro schema node.
type Type interface {
	Kind() Kind
	// String returns the canonical JSON form of the type.  Two types
	// with equal String forms decode identical bytes identically.
	String() string
}

// NamedType is implemented by fixed, enum, and record types.
type NamedType interface {
	Type
	FullName() string
	AliasNames() []string
}

// Logical is a logicalType annotation.  Precision and Scale are meaningful
// only for decimals.
type Logical struct {
	Name      string
	Precision int
	Scale     int
}

type TypeOfPrimitive struct {
	ID      Kind
	Logical *Logical
}

func (t *TypeOfPrimitive) Kind() Kind { return t.ID }

var (
	TypeNull    = &TypeOfPrimitive{ID: KindNull}
	TypeBoolean = &TypeOfPrimitive{ID: KindBoolean}
	TypeInt     = &TypeOfPrimitive{ID: KindInt}
	TypeLong    = &TypeOfPrimitive{ID: KindLong}
	TypeFloat   = &TypeOfPrimitive{ID: KindFloat}
	TypeDouble  = &TypeOfPrimitive{ID: KindDouble}
	TypeBytes   = &TypeOfPrimitive{ID: KindBytes}
	TypeString  = &TypeOfPrimitive{ID: KindString}
)

// LookupPrimitive returns the shared unannotated primitive of kind k.
func LookupPrimitive(k Kind) *TypeOfPrimitive {
	switch k {
	case KindNull:
		return TypeNull
	case KindBoolean:
		return TypeBoolean
	case KindInt:
		return TypeInt
	case KindLong:
		return TypeLong
	case KindFloat:
		return TypeFloat
	case KindDouble:
		return TypeDouble
	case KindBytes:
		return TypeBytes
	case KindString:
		return TypeString
	}
	return nil
}

// Named holds the naming attributes common to fixed, enum, and record.
// Name and Aliases are fully qualified.
type Named struct {
	Name    string
	Aliases []string
}

func (n *Named) FullName() string     { return n.Name }
func (n *Named) AliasNames() []string { return n.Aliases }

type TypeFixed struct {
	Named
	Size    int
	Logical *Logical
}

func (*TypeFixed) Kind() Kind { return KindFixed }

type TypeEnum struct {
	Named
	Symbols    []string
	Default    string
	HasDefault bool
}

func (*TypeEnum) Kind() Kind { return KindEnum }

// Lookup returns the index of symbol or -1.
func (t *TypeEnum) Lookup(symbol string) int {
	for k, s := range t.Symbols {
		if s == symbol {
			return k
		}
	}
	return -1
}

// TypeRecord is a record, error, or request type as selected by ID.
type TypeRecord struct {
	Named
	ID     Kind
	Fields []Field
}

func (t *TypeRecord) Kind() Kind { return t.ID }

type Field struct {
	Name    string
	Type    Type
	Aliases []string
	// Default holds the decoded form of the declared default when
	// HasDefault is true.  Use CopyDefault to obtain a value that may
	// be handed to callers.
	Default    any
	HasDefault bool
}

// LookupField returns the index of the field called name or -1.
func (t *TypeRecord) LookupField(name string) int {
	for k, f := range t.Fields {
		if f.Name == name {
			return k
		}
	}
	return -1
}

type TypeArray struct {
	Items Type
}

func (*TypeArray) Kind() Kind { return KindArray }

type TypeMap struct {
	Values Type
}

func (*TypeMap) Kind() Kind { return KindMap }

// TypeUnion is a union or error_union as selected by ID.
type TypeUnion struct {
	ID    Kind
	Types []Type
}

func (t *TypeUnion) Kind() Kind { return t.ID }

// TypeRef refers by name to a type registered in the Context the schema
// was parsed in.
type TypeRef struct {
	Name string
	zctx *Context
}

func (*TypeRef) Kind() Kind { return KindRef }

func (t *TypeRef) Context() *Context { return t.zctx }

// Resolve returns the referenced type.
func (t *TypeRef) Resolve() (Type, error) {
	if typ := t.zctx.Lookup(t.Name); typ != nil {
		return typ, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t.Name)
}

// Deref follows references until it reaches a type that is not a TypeRef.
func Deref(typ Type) (Type, error) {
	for {
		ref, ok := typ.(*TypeRef)
		if !ok {
			return typ, nil
		}
		var err error
		if typ, err = ref.Resolve(); err != nil {
			return nil, err
		}
	}
}

// LogicalOf returns the logical annotation of a primitive or fixed type.
func LogicalOf(typ Type) *Logical {
	switch typ := typ.(type) {
	case *TypeOfPrimitive:
		return typ.Logical
	case *TypeFixed:
		return typ.Logical
	}
	return nil
}

// TypeName returns the full name of a named type, following references,
// or the kind name otherwise.
func TypeName(typ Type) string {
	switch t := typ.(type) {
	case *TypeRef:
		return t.Name
	case NamedType:
		return t.FullName()
	}
	return typ.Kind().String()
}
