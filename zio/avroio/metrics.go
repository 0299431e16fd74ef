package avroio

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stats holds reader statistics.
type Stats struct {
	BlocksRead        int64 `json:"blocks_read" yaml:"blocks_read"`
	RecordsRead       int64 `json:"records_read" yaml:"records_read"`
	BytesRead         int64 `json:"bytes_read" yaml:"bytes_read"`
	BytesDecompressed int64 `json:"bytes_decompressed" yaml:"bytes_decompressed"`
}

// Add updates its receiver by adding to it the values in in.
func (s *Stats) Add(in Stats) {
	atomic.AddInt64(&s.BlocksRead, in.BlocksRead)
	atomic.AddInt64(&s.RecordsRead, in.RecordsRead)
	atomic.AddInt64(&s.BytesRead, in.BytesRead)
	atomic.AddInt64(&s.BytesDecompressed, in.BytesDecompressed)
}

func (s *Stats) Copy() Stats {
	return Stats{
		BlocksRead:        atomic.LoadInt64(&s.BlocksRead),
		RecordsRead:       atomic.LoadInt64(&s.RecordsRead),
		BytesRead:         atomic.LoadInt64(&s.BytesRead),
		BytesDecompressed: atomic.LoadInt64(&s.BytesDecompressed),
	}
}

// Metrics exports reader activity as Prometheus counters.  One Metrics may
// be shared by any number of readers.
type Metrics struct {
	blocks            prometheus.Counter
	records           prometheus.Counter
	bytesRead         prometheus.Counter
	bytesDecompressed *prometheus.CounterVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)
	return &Metrics{
		blocks: factory.NewCounter(prometheus.CounterOpts{
			Name: "avro_blocks_read_total",
			Help: "Number of container blocks read.",
		}),
		records: factory.NewCounter(prometheus.CounterOpts{
			Name: "avro_records_read_total",
			Help: "Number of records decoded.",
		}),
		bytesRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "avro_bytes_read_total",
			Help: "Number of container bytes read, including framing.",
		}),
		bytesDecompressed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "avro_bytes_decompressed_total",
			Help: "Number of block bytes after decompression.",
		}, []string{"codec"}),
	}
}

func (m *Metrics) blockRead(size int64) {
	if m == nil {
		return
	}
	m.blocks.Inc()
	m.bytesRead.Add(float64(size))
}

func (m *Metrics) decompressed(codec string, n int) {
	if m == nil {
		return
	}
	m.bytesDecompressed.WithLabelValues(codec).Add(float64(n))
}

func (m *Metrics) recordsRead(n int64) {
	if m == nil {
		return
	}
	m.records.Add(float64(n))
}
