package avroio

import (
	"bytes"
	"errors"
	"io"
	"sort"

	"github.com/brimdata/zavro"
	"github.com/brimdata/zavro/binio"
	"github.com/brimdata/zavro/datum"
	"github.com/brimdata/zavro/pkg/peeker"
	"github.com/brimdata/zavro/zqe"
)

const (
	SchemaKey = "avro.schema"
	CodecKey  = "avro.codec"
)

// Header is the decoded prologue of a container file.
type Header struct {
	// Meta holds the raw metadata values.
	Meta map[string][]byte
	// Metadata holds the metadata values decoded as UTF-8 text.
	Metadata map[string]string
	Codec    string
	Schema   zavro.Type
	Sync     [SyncSize]byte
}

// Keys returns the metadata keys in sorted order.
func (h *Header) Keys() []string {
	keys := make([]string, 0, len(h.Meta))
	for key := range h.Meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func readHeader(p *peeker.Reader, dec *binio.Decoder, schemas *SchemaCache, max int) (*Header, error) {
	b, err := p.Peek(len(Magic))
	if err != nil || !bytes.Equal(b, Magic) {
		return nil, zqe.E(zqe.Format, ErrNotAvro)
	}
	v, err := datum.Read(dec, zavro.HeaderSchema(), nil, datum.Options{Unicode: datum.UnicodeReplace})
	if err != nil {
		if errors.Is(err, peeker.ErrBufferOverflow) {
			return nil, zqe.E(zqe.Format, "header item exceeds maximum size %d", max)
		}
		if zqe.IsTruncated(err) {
			return nil, zqe.E(zqe.Format, "%w: cannot read header: %w", ErrNotAvro, err)
		}
		return nil, err
	}
	rec := v.(map[string]any)
	h := &Header{
		Meta:     make(map[string][]byte),
		Metadata: make(map[string]string),
	}
	for key, val := range rec["meta"].(map[string]any) {
		h.Meta[key] = val.([]byte)
		h.Metadata[key] = string(val.([]byte))
	}
	copy(h.Sync[:], rec["sync"].([]byte))
	h.Codec = h.Metadata[CodecKey]
	if h.Codec == "" {
		h.Codec = "null"
	}
	text, ok := h.Meta[SchemaKey]
	if !ok {
		return nil, zqe.E(zqe.Format, "%w: header has no %s", ErrNotAvro, SchemaKey)
	}
	if h.Schema, err = schemas.Parse(text); err != nil {
		return nil, zqe.E(zqe.Invalid, "writer schema: %w", err)
	}
	return h, nil
}

// IsAvro reports whether r begins with the container file magic.  It
// consumes up to four bytes of r.
func IsAvro(r io.Reader) (bool, error) {
	b := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(b, Magic), nil
}

// Probe is like IsAvro but leaves the bytes in p to be read.
func Probe(p *peeker.Reader) bool {
	b, err := p.Peek(len(Magic))
	return err == nil && bytes.Equal(b, Magic)
}
