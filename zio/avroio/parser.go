package avroio

import (
	"bytes"
	"errors"
	"io"

	"github.com/brimdata/zavro/binio"
	"github.com/brimdata/zavro/codec"
	"github.com/brimdata/zavro/datum"
	"github.com/brimdata/zavro/pkg/peeker"
	"github.com/brimdata/zavro/zqe"
	"go.uber.org/zap"
)

// blockFraming bounds the bytes around a block payload: two varints and the
// sync marker.
const blockFraming = 2*10 + SyncSize

// parser reads the header and the framing of each block.  It is driven by
// a single goroutine.
type parser struct {
	peeker  *peeker.Reader
	dec     *binio.Decoder
	header  *Header
	codec   codec.Codec
	opts    ReaderOpts
	dopts   datum.Options
	stats   *Stats
	logger  *zap.Logger
	nblocks int
}

// rawBlock is a block whose payload has not been decompressed.
type rawBlock struct {
	offset  int64
	count   int64
	payload []byte
	// size is the length of the block's framing and payload.  It
	// includes the trailing sync marker once that has been verified.
	size int64
}

func newParser(r io.Reader, opts ReaderOpts) (*parser, error) {
	opts = opts.withDefaults()
	p := peeker.NewReader(r, ReadSize, opts.MaxBlockSize+blockFraming)
	dec := binio.NewStreamDecoder(p)
	header, err := readHeader(p, dec, opts.Schemas, opts.MaxBlockSize+blockFraming)
	if err != nil {
		return nil, err
	}
	c, err := codec.Lookup(header.Codec)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("Avro header",
		zap.String("codec", header.Codec),
		zap.String("schema", header.Schema.Kind().String()),
		zap.Strings("meta", header.Keys()),
	)
	return &parser{
		peeker: p,
		dec:    dec,
		header: header,
		codec:  c,
		opts:   opts,
		dopts:  opts.datumOpts(datum.NewCache(0)),
		stats:  &Stats{},
		logger: opts.Logger,
	}, nil
}

// readBlock reads the count and payload of the next block.  It returns
// nil and no error at end of stream.  The caller must call readSync after
// the block.
func (p *parser) readBlock() (*rawBlock, error) {
	offset := p.dec.Pos()
	count, err := p.dec.ReadLong()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, p.framingErr("block count", offset, err)
	}
	if count < 0 {
		return nil, zqe.E(zqe.Format, "negative record count %d in block at offset %d", count, offset)
	}
	pos := p.dec.Pos()
	length, err := p.dec.ReadLong()
	if err != nil {
		return nil, p.framingErr("block size", pos, err)
	}
	if length < 0 || length > int64(p.opts.MaxBlockSize) {
		return nil, zqe.E(zqe.Format, "block at offset %d has size %d outside of [0, %d]", offset, length, p.opts.MaxBlockSize)
	}
	pos = p.dec.Pos()
	payload, err := p.dec.ReadFixed(int(length))
	if err != nil {
		return nil, p.framingErr("block payload", pos, err)
	}
	p.nblocks++
	return &rawBlock{
		offset:  offset,
		count:   count,
		payload: payload,
		size:    p.dec.Pos() - offset,
	}, nil
}

// readSync verifies the sync marker that follows blk.
func (p *parser) readSync(blk *rawBlock) error {
	pos := p.dec.Pos()
	b, err := p.dec.ReadFixed(SyncSize)
	if err != nil {
		return p.framingErr("sync marker", pos, err)
	}
	if !bytes.Equal(b, p.header.Sync[:]) {
		return zqe.E(zqe.Format, "%w at offset %d", ErrSyncMismatch, pos)
	}
	blk.size = p.dec.Pos() - blk.offset
	p.stats.Add(Stats{BlocksRead: 1, BytesRead: blk.size})
	p.opts.Metrics.blockRead(blk.size)
	p.logger.Debug("Avro block",
		zap.Int("block", p.nblocks),
		zap.Int64("offset", blk.offset),
		zap.Int64("count", blk.count),
		zap.Int64("size", blk.size),
	)
	return nil
}

func (p *parser) framingErr(what string, pos int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return zqe.E(zqe.Truncated, "reading %s at offset %d: %w", what, pos, err)
	}
	if errors.Is(err, peeker.ErrBufferOverflow) {
		return zqe.E(zqe.Format, "reading %s at offset %d: exceeds maximum block size %d", what, pos, p.opts.MaxBlockSize)
	}
	return err
}

// decompress returns the decompressed payload of blk.
func (p *parser) decompress(blk *rawBlock) ([]byte, error) {
	b, err := p.codec.Decompress(blk.payload, p.opts.MaxDecompressedSize)
	if err != nil {
		return nil, zqe.E("block at offset %d: %w", blk.offset, err)
	}
	p.stats.Add(Stats{BytesDecompressed: int64(len(b))})
	p.opts.Metrics.decompressed(p.header.Codec, len(b))
	return b, nil
}
