package datum

import (
	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/binio"
	"github.com/brimdata/zavro/zqe"
)

// Skip advances dec past one value of typ without materializing it.
func Skip(dec *binio.Decoder, typ zavro.Type) error {
	pos := dec.Pos()
	if err := skip(dec, typ); err != nil {
		return eof(err, typ.Kind(), pos)
	}
	return nil
}

func skip(dec *binio.Decoder, typ zavro.Type) error {
	switch t := typ.(type) {
	case *zavro.TypeRef:
		resolved, err := t.Resolve()
		if err != nil {
			return zqe.E(zqe.Invalid, err)
		}
		return skip(dec, resolved)
	case *zavro.TypeOfPrimitive:
		switch t.ID {
		case zavro.KindNull:
			return nil
		case zavro.KindBoolean:
			return dec.Skip(1)
		case zavro.KindInt, zavro.KindLong:
			_, err := dec.ReadLong()
			return err
		case zavro.KindFloat:
			return dec.Skip(4)
		case zavro.KindDouble:
			return dec.Skip(8)
		case zavro.KindBytes, zavro.KindString:
			return dec.SkipBytes()
		}
	case *zavro.TypeFixed:
		return dec.Skip(int64(t.Size))
	case *zavro.TypeEnum:
		_, err := dec.ReadLong()
		return err
	case *zavro.TypeArray:
		return dec.SkipItems(func() error {
			return skip(dec, t.Items)
		})
	case *zavro.TypeMap:
		return dec.SkipItems(func() error {
			if err := dec.SkipBytes(); err != nil {
				return err
			}
			return skip(dec, t.Values)
		})
	case *zavro.TypeUnion:
		idx, err := dec.ReadIndex()
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(t.Types) {
			return zqe.E(zqe.Format, "union index %d out of range", idx)
		}
		return skip(dec, t.Types[idx])
	case *zavro.TypeRecord:
		for _, f := range t.Fields {
			if err := skip(dec, f.Type); err != nil {
				return err
			}
		}
		return nil
	}
	return zqe.E(zqe.Invalid, "cannot skip type %s", typ)
}
