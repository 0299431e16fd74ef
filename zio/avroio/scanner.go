package avroio

import (
	"context"
	"io"
	"sync"

	"github.com/brimdata/zavro"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scanner decodes the blocks of a container file on a pool of worker
// goroutines and returns their records in file order.  A single goroutine
// advances the underlying reader.
type Scanner struct {
	ctx        context.Context
	cancel     context.CancelFunc
	parser     *parser
	threads    int
	once       sync.Once
	group      *errgroup.Group
	workCh     chan work
	resultChCh chan chan result
	batch      []*zavro.Value
	err        error
	eof        bool
}

type result struct {
	vals []*zavro.Value
	err  error
}

type work struct {
	raw      rawBlock
	resultCh chan result
}

// NewScanner reads the header of the container file in r.  Decoding does
// not begin until the first call to Pull or Read.  If threads is less
// than one, one worker is used.
func NewScanner(ctx context.Context, r io.Reader, threads int, opts ReaderOpts) (*Scanner, error) {
	p, err := newParser(r, opts)
	if err != nil {
		return nil, err
	}
	if threads < 1 {
		threads = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Scanner{
		ctx:        ctx,
		cancel:     cancel,
		parser:     p,
		threads:    threads,
		workCh:     make(chan work),
		resultChCh: make(chan chan result, threads+1),
	}, nil
}

func (s *Scanner) Header() *Header { return s.parser.header }
func (s *Scanner) Stats() Stats    { return s.parser.stats.Copy() }

// Pull returns the records of the next block or nil at end of stream.  If
// a block fails to decode, Pull returns the records decoded before the
// failure along with the error.  Calling Pull with done true stops the
// scan and waits for the input goroutine to exit.
func (s *Scanner) Pull(done bool) ([]*zavro.Value, error) {
	s.once.Do(s.start)
	if done {
		s.Close()
		return nil, nil
	}
	if s.err != nil || s.eof {
		return nil, s.err
	}
	for {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return nil, err
		}
		select {
		case ch, ok := <-s.resultChCh:
			if !ok {
				s.eof = true
				return nil, nil
			}
			result, ok := <-ch
			if !ok {
				continue
			}
			if result.err != nil {
				s.err = result.err
				s.cancel()
			}
			if result.vals == nil && result.err == nil {
				s.eof = true
			}
			return result.vals, result.err
		case <-s.ctx.Done():
			if s.err == nil {
				s.err = s.ctx.Err()
			}
			return nil, s.err
		}
	}
}

// Read implements zio.Reader.  The records of a block that failed to
// decode completely are returned before the error.
func (s *Scanner) Read() (*zavro.Value, error) {
	for len(s.batch) == 0 {
		batch, err := s.Pull(false)
		if len(batch) == 0 && err != nil {
			return nil, err
		}
		if batch == nil {
			return nil, nil
		}
		s.batch = batch
	}
	val := s.batch[0]
	s.batch = s.batch[1:]
	return val, nil
}

// Close stops the scan.  It returns after every goroutine started by the
// Scanner has exited, so the underlying reader may then be closed.
func (s *Scanner) Close() error {
	s.once.Do(func() {})
	s.cancel()
	if s.group != nil {
		for range s.resultChCh {
		}
		s.group.Wait()
		s.group = nil
	}
	s.eof = true
	return nil
}

func (s *Scanner) start() {
	g, ctx := errgroup.WithContext(s.ctx)
	s.group = g
	s.parser.logger.Debug("Avro scanner started", zap.Int("threads", s.threads))
	for i := 0; i < s.threads; i++ {
		g.Go(func() error {
			s.runWorker(ctx)
			return nil
		})
	}
	g.Go(func() error {
		defer close(s.resultChCh)
		// Each block is handed to a worker along with a result channel
		// queued on resultChCh, so results come back in file order.  The
		// sync marker is checked after the block is dispatched and an
		// error is queued behind the block's records.
		for {
			blk, err := s.parser.readBlock()
			if blk == nil || err != nil {
				s.parser.logger.Debug("Avro scanner input done", zap.Error(err))
				s.sendErr(ctx, err)
				return nil
			}
			w := work{raw: *blk, resultCh: make(chan result, 1)}
			select {
			case s.resultChCh <- w.resultCh:
			case <-ctx.Done():
				return nil
			}
			select {
			case s.workCh <- w:
			case <-ctx.Done():
				close(w.resultCh)
				return nil
			}
			if err := s.parser.readSync(blk); err != nil {
				s.sendErr(ctx, err)
				return nil
			}
		}
	})
}

// sendErr queues err, or end of stream if err is nil, in order with the
// workers' results.
func (s *Scanner) sendErr(ctx context.Context, err error) {
	ch := make(chan result, 1)
	ch <- result{err: err}
	select {
	case s.resultChCh <- ch:
	case <-ctx.Done():
	}
}

func (s *Scanner) runWorker(ctx context.Context) {
	for {
		select {
		case w := <-s.workCh:
			vals, err := s.decode(&w.raw)
			w.resultCh <- result{vals: vals, err: err}
			close(w.resultCh)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scanner) decode(raw *rawBlock) ([]*zavro.Value, error) {
	p := s.parser
	b, err := p.decompress(raw)
	if err != nil {
		return nil, err
	}
	r := p.newBlock(raw, b).Reader()
	vals := make([]*zavro.Value, 0, raw.count)
	for {
		val, err := r.Read()
		if val == nil || err != nil {
			p.stats.Add(Stats{RecordsRead: int64(len(vals))})
			p.opts.Metrics.recordsRead(int64(len(vals)))
			if len(vals) == 0 && err == nil {
				// An empty block must not look like end of stream.
				return []*zavro.Value{}, nil
			}
			return vals, err
		}
		vals = append(vals, val)
	}
}
