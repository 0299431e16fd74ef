// Package resolver decides whether data written with one Avro schema can be
// read with another.
package resolver

import (
	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/zqe"
)

// promotions lists, for each writer kind, the reader kinds it may be read
// as besides itself.
var promotions = map[zavro.Kind][]zavro.Kind{
	zavro.KindInt:    {zavro.KindLong, zavro.KindFloat, zavro.KindDouble},
	zavro.KindLong:   {zavro.KindFloat, zavro.KindDouble},
	zavro.KindFloat:  {zavro.KindDouble},
	zavro.KindString: {zavro.KindBytes},
	zavro.KindBytes:  {zavro.KindString},
}

// Promotable reports whether a writer kind may be read as the reader kind.
func Promotable(writer, reader zavro.Kind) bool {
	if writer == reader {
		return true
	}
	for _, k := range promotions[writer] {
		if k == reader {
			return true
		}
	}
	return false
}

func isUnion(typ zavro.Type) bool {
	k := typ.Kind()
	return k == zavro.KindUnion || k == zavro.KindErrorUnion
}

// Match reports whether writer data can be read as reader.  A union on
// either side matches since unions are resolved branch by branch as they
// are read.  Maps and arrays match when their values and items do.
// Everything else matches on kind subject to the promotion rules.
func Match(writer, reader zavro.Type) bool {
	writer, err := zavro.Deref(writer)
	if err != nil {
		return false
	}
	reader, err = zavro.Deref(reader)
	if err != nil {
		return false
	}
	if isUnion(writer) || isUnion(reader) {
		return true
	}
	switch w := writer.(type) {
	case *zavro.TypeMap:
		if r, ok := reader.(*zavro.TypeMap); ok {
			return Match(w.Values, r.Values)
		}
		return false
	case *zavro.TypeArray:
		if r, ok := reader.(*zavro.TypeArray); ok {
			return Match(w.Items, r.Items)
		}
		return false
	case *zavro.TypeFixed:
		if r, ok := reader.(*zavro.TypeFixed); ok {
			return w.Size == r.Size
		}
		return false
	}
	return Promotable(writer.Kind(), reader.Kind())
}

// MatchSchemas returns the reader type to decode writer data with or a
// zqe.Resolution error naming both schemas.
func MatchSchemas(writer, reader zavro.Type) (zavro.Type, error) {
	if Match(writer, reader) {
		return reader, nil
	}
	return nil, zqe.E(zqe.Resolution, "schema mismatch: %s is not %s", writer, reader)
}

// ResolveUnion picks the reader branch for data written with the writer
// branch: the first branch in reader order that Match accepts.  Named
// branches match on kind, so a reader union with two records takes the
// first of them.
func ResolveUnion(writer zavro.Type, reader *zavro.TypeUnion) (zavro.Type, error) {
	for _, branch := range reader.Types {
		if Match(writer, branch) {
			return branch, nil
		}
	}
	return nil, zqe.E(zqe.Resolution, "schema mismatch: %s not found in %s", writer, reader)
}
