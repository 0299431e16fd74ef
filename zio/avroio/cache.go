package avroio

import (
	"github.com/brimdata/zavro"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultSchemaCache is shared by readers that are not given a cache.
var DefaultSchemaCache = MustNewSchemaCache(256, nil)

// SchemaCache holds parsed writer schemas keyed by their JSON text so that
// a run of files written with the same schema parses it once.  Parsed
// schemas are immutable and safe to share.
type SchemaCache struct {
	lru    *lru.Cache[string, zavro.Type]
	hits   prometheus.Counter
	misses prometheus.Counter
}

func NewSchemaCache(size int, registerer prometheus.Registerer) (*SchemaCache, error) {
	c, err := lru.New[string, zavro.Type](size)
	if err != nil {
		return nil, err
	}
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)
	return &SchemaCache{
		lru: c,
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "avro_schema_cache_hits_total",
			Help: "Number of writer schemas found in the schema cache.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "avro_schema_cache_misses_total",
			Help: "Number of writer schemas parsed because they were not cached.",
		}),
	}, nil
}

func MustNewSchemaCache(size int, registerer prometheus.Registerer) *SchemaCache {
	c, err := NewSchemaCache(size, registerer)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse returns the parsed form of the schema text b.
func (c *SchemaCache) Parse(b []byte) (zavro.Type, error) {
	key := string(b)
	if typ, ok := c.lru.Get(key); ok {
		c.hits.Inc()
		return typ, nil
	}
	c.misses.Inc()
	typ, err := zavro.ParseSchema(b)
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, typ)
	return typ, nil
}

func (c *SchemaCache) Len() int {
	return c.lru.Len()
}
