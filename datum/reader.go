// Package datum decodes Avro values from the binary encoding, resolving the
// writer schema against an optional reader schema as it goes.
package datum

import (
	"errors"
	"io"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/binio"
	"github.com/brimdata/zavro/logical"
	"github.com/brimdata/zavro/resolver"
	"github.com/brimdata/zavro/zqe"
)

// Read decodes one value written with writer.  If reader is non-nil, the
// value is resolved to reader: fields are renamed and defaulted, enum
// symbols are mapped, union branches are chosen, and primitives are
// promoted.  Resolution work is memoized in opts.Cache, or for the
// duration of the call when that is nil.
func Read(dec *binio.Decoder, writer, reader zavro.Type, opts Options) (any, error) {
	r := &datumReader{dec: dec, opts: opts}
	return r.read(writer, reader)
}

type datumReader struct {
	dec  *binio.Decoder
	opts Options
}

func (r *datumReader) cache() *Cache {
	if r.opts.Cache == nil {
		r.opts.Cache = NewCache(0)
	}
	return r.opts.Cache
}

// Same reports whether writer and reader are structurally identical, in
// which case no resolution is needed for them or anything beneath them.
func Same(writer, reader zavro.Type) bool {
	return writer == reader || zavro.Expand(writer) == zavro.Expand(reader)
}

func (r *datumReader) read(writer, reader zavro.Type) (any, error) {
	if ref, ok := writer.(*zavro.TypeRef); ok {
		typ, err := ref.Resolve()
		if err != nil {
			return nil, zqe.E(zqe.Invalid, err)
		}
		return r.read(typ, reader)
	}
	if reader != nil {
		var err error
		if reader, err = zavro.Deref(reader); err != nil {
			return nil, zqe.E(zqe.Invalid, err)
		}
		if ru, ok := reader.(*zavro.TypeUnion); ok && !isUnion(writer) {
			if reader, err = resolver.ResolveUnion(writer, ru); err != nil {
				return nil, err
			}
			if reader, err = zavro.Deref(reader); err != nil {
				return nil, zqe.E(zqe.Invalid, err)
			}
		}
		if r.cache().same(writer, reader) {
			reader = nil
		} else if reader, err = resolver.MatchSchemas(writer, reader); err != nil {
			return nil, err
		}
	}
	var val any
	var err error
	switch w := writer.(type) {
	case *zavro.TypeOfPrimitive:
		val, err = r.readPrimitive(w.ID)
	case *zavro.TypeFixed:
		val, err = r.readFixed(w)
	case *zavro.TypeEnum:
		val, err = r.readEnum(w, reader)
	case *zavro.TypeArray:
		val, err = r.readArray(w, reader)
	case *zavro.TypeMap:
		val, err = r.readMap(w, reader)
	case *zavro.TypeUnion:
		val, err = r.readUnion(w, reader)
	case *zavro.TypeRecord:
		val, err = r.readRecord(w, reader)
	default:
		return nil, zqe.E(zqe.Invalid, "cannot decode type %s", writer)
	}
	if err != nil {
		return nil, err
	}
	if l := zavro.LogicalOf(writer); l != nil {
		if val, err = logical.Convert(writer.Kind(), l, val); err != nil {
			return nil, zqe.E(zqe.Format, "%s %s: %w", writer.Kind(), l.Name, err)
		}
	}
	if reader != nil {
		return r.promote(val, reader.Kind())
	}
	return val, nil
}

func isUnion(typ zavro.Type) bool {
	_, ok := typ.(*zavro.TypeUnion)
	return ok
}

// eof converts a decoder end-of-input error into a zqe.Truncated error
// that names the kind being decoded and where.
func eof(err error, kind zavro.Kind, pos int64) error {
	if zqe.IsTruncated(err) {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return zqe.E(zqe.Truncated, "reading %s at offset %d: %w", kind, pos, err)
	}
	return err
}

func (r *datumReader) readPrimitive(k zavro.Kind) (any, error) {
	pos := r.dec.Pos()
	var val any
	var err error
	switch k {
	case zavro.KindNull:
		err = r.dec.ReadNull()
	case zavro.KindBoolean:
		val, err = r.dec.ReadBoolean()
	case zavro.KindInt:
		val, err = r.dec.ReadInt()
	case zavro.KindLong:
		val, err = r.dec.ReadLong()
	case zavro.KindFloat:
		val, err = r.dec.ReadFloat()
	case zavro.KindDouble:
		val, err = r.dec.ReadDouble()
	case zavro.KindBytes:
		val, err = r.dec.ReadBytes()
	case zavro.KindString:
		val, err = r.readString()
	}
	if err != nil {
		return nil, eof(err, k, pos)
	}
	return val, nil
}

func (r *datumReader) readString() (string, error) {
	pos := r.dec.Pos()
	s, err := r.dec.ReadString()
	if err != nil {
		return "", err
	}
	return r.sanitize(s, pos)
}

func (r *datumReader) sanitize(s string, pos int64) (string, error) {
	s, ok := r.opts.Unicode.sanitize(s)
	if !ok {
		return "", zqe.E(zqe.Format, "invalid UTF-8 in string at offset %d", pos)
	}
	return s, nil
}

func (r *datumReader) readFixed(w *zavro.TypeFixed) (any, error) {
	pos := r.dec.Pos()
	b, err := r.dec.ReadFixed(w.Size)
	if err != nil {
		return nil, eof(err, zavro.KindFixed, pos)
	}
	return b, nil
}

func (r *datumReader) readEnum(w *zavro.TypeEnum, reader zavro.Type) (any, error) {
	pos := r.dec.Pos()
	idx, err := r.dec.ReadIndex()
	if err != nil {
		return nil, eof(err, zavro.KindEnum, pos)
	}
	if idx < 0 || idx >= len(w.Symbols) {
		return nil, zqe.E(zqe.Format, "enum %s index %d out of range at offset %d", w.Name, idx, pos)
	}
	symbol := w.Symbols[idx]
	if reader == nil {
		return symbol, nil
	}
	re := reader.(*zavro.TypeEnum)
	if re.Lookup(symbol) >= 0 {
		return symbol, nil
	}
	if re.HasDefault {
		return re.Default, nil
	}
	return nil, zqe.E(zqe.Resolution, "%s not found in reader symbol list %v", symbol, re.Symbols)
}

func (r *datumReader) readArray(w *zavro.TypeArray, reader zavro.Type) (any, error) {
	var items zavro.Type
	if reader != nil {
		items = reader.(*zavro.TypeArray).Items
	}
	pos := r.dec.Pos()
	out := []any{}
	err := r.dec.ReadItems(func() error {
		v, err := r.read(w.Items, items)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, eof(err, zavro.KindArray, pos)
	}
	return out, nil
}

func (r *datumReader) readMap(w *zavro.TypeMap, reader zavro.Type) (any, error) {
	var values zavro.Type
	if reader != nil {
		values = reader.(*zavro.TypeMap).Values
	}
	pos := r.dec.Pos()
	out := map[string]any{}
	err := r.dec.ReadItems(func() error {
		key, err := r.readString()
		if err != nil {
			return err
		}
		v, err := r.read(w.Values, values)
		if err != nil {
			return err
		}
		out[key] = v
		return nil
	})
	if err != nil {
		return nil, eof(err, zavro.KindMap, pos)
	}
	return out, nil
}

func (r *datumReader) readUnion(w *zavro.TypeUnion, reader zavro.Type) (any, error) {
	pos := r.dec.Pos()
	idx, err := r.dec.ReadIndex()
	if err != nil {
		return nil, eof(err, w.ID, pos)
	}
	if idx < 0 || idx >= len(w.Types) {
		return nil, zqe.E(zqe.Format, "union index %d out of range at offset %d", idx, pos)
	}
	branch := w.Types[idx]
	if reader != nil {
		var rbranch zavro.Type
		if ru, ok := reader.(*zavro.TypeUnion); ok {
			if rbranch, err = resolver.ResolveUnion(branch, ru); err != nil {
				return nil, err
			}
		} else if resolver.Match(branch, reader) {
			rbranch = reader
		} else {
			return nil, zqe.E(zqe.Resolution, "schema mismatch: %s is not %s", branch, reader)
		}
		return r.read(branch, rbranch)
	}
	val, err := r.read(branch, nil)
	if err != nil || !r.opts.ReturnRecordName {
		return val, err
	}
	switch branch.Kind() {
	case zavro.KindRecord, zavro.KindError, zavro.KindRequest, zavro.KindRef:
		return zavro.NamedValue{Name: zavro.TypeName(branch), Value: val}, nil
	}
	return val, nil
}

func (r *datumReader) readRecord(w *zavro.TypeRecord, reader zavro.Type) (any, error) {
	out := make(map[string]any, len(w.Fields))
	if reader == nil {
		for _, f := range w.Fields {
			v, err := r.read(f.Type, nil)
			if err != nil {
				return nil, err
			}
			out[f.Name] = v
		}
		return out, nil
	}
	rr := reader.(*zavro.TypeRecord)
	p := r.cache().plan(w, rr)
	for k, f := range w.Fields {
		j := p.fields[k]
		if j < 0 {
			if err := Skip(r.dec, f.Type); err != nil {
				return nil, err
			}
			continue
		}
		rf := &rr.Fields[j]
		v, err := r.read(f.Type, rf.Type)
		if err != nil {
			return nil, err
		}
		out[rf.Name] = v
	}
	for _, rf := range rr.Fields {
		if _, ok := out[rf.Name]; ok {
			continue
		}
		if !rf.HasDefault {
			return nil, zqe.E(zqe.Resolution, "no default value for field %s of %s", rf.Name, rr.Name)
		}
		out[rf.Name] = zavro.CopyDefault(rf.Default)
	}
	return out, nil
}

func (r *datumReader) promote(val any, to zavro.Kind) (any, error) {
	switch v := val.(type) {
	case int32:
		switch to {
		case zavro.KindLong:
			return int64(v), nil
		case zavro.KindFloat:
			return float32(v), nil
		case zavro.KindDouble:
			return float64(v), nil
		}
	case int64:
		switch to {
		case zavro.KindFloat:
			return float32(v), nil
		case zavro.KindDouble:
			return float64(v), nil
		}
	case float32:
		if to == zavro.KindDouble {
			return float64(v), nil
		}
	case string:
		if to == zavro.KindBytes {
			return []byte(v), nil
		}
	case []byte:
		if to == zavro.KindString {
			return r.sanitize(string(v), r.dec.Pos())
		}
	}
	return val, nil
}
