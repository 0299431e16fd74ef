package datum

import (
	"github.com/brimdata/zavro"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds each table of a Cache.
const DefaultCacheSize = 1024

// Cache memoizes the work of resolving a writer schema against a reader
// schema: the canonical form of each type compared by Same and the field
// plan of each record pair.  A Cache is safe for concurrent use.  Readers
// keep one per file or per stream so the entries go away with them.
type Cache struct {
	canonical *lru.Cache[zavro.Type, string]
	plans     *lru.Cache[planKey, *recordPlan]
}

// NewCache returns a Cache holding up to size entries per table.  A
// non-positive size means DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	canonical, err := lru.New[zavro.Type, string](size)
	if err != nil {
		panic(err)
	}
	plans, err := lru.New[planKey, *recordPlan](size)
	if err != nil {
		panic(err)
	}
	return &Cache{canonical: canonical, plans: plans}
}

// Len returns the number of canonical forms and plans held.
func (c *Cache) Len() int {
	return c.canonical.Len() + c.plans.Len()
}

func (c *Cache) canonicalForm(typ zavro.Type) string {
	if s, ok := c.canonical.Get(typ); ok {
		return s
	}
	s := zavro.Expand(typ)
	c.canonical.Add(typ, s)
	return s
}

func (c *Cache) same(writer, reader zavro.Type) bool {
	return writer == reader || c.canonicalForm(writer) == c.canonicalForm(reader)
}

func (c *Cache) plan(writer, reader *zavro.TypeRecord) *recordPlan {
	key := planKey{writer, reader}
	if p, ok := c.plans.Get(key); ok {
		return p
	}
	p := newRecordPlan(writer, reader)
	c.plans.Add(key, p)
	return p
}

// recordPlan maps each writer field to the index of the reader field it
// populates or -1 if the writer field is skipped.
type recordPlan struct {
	fields []int
}

type planKey struct {
	writer *zavro.TypeRecord
	reader *zavro.TypeRecord
}

// newRecordPlan matches writer fields to reader fields by name and then by
// the reader fields' aliases.
func newRecordPlan(writer, reader *zavro.TypeRecord) *recordPlan {
	byName := make(map[string]int, len(reader.Fields))
	byAlias := make(map[string]int)
	for k, f := range reader.Fields {
		byName[f.Name] = k
		for _, alias := range f.Aliases {
			byAlias[alias] = k
		}
	}
	p := &recordPlan{fields: make([]int, len(writer.Fields))}
	for k, f := range writer.Fields {
		if j, ok := byName[f.Name]; ok {
			p.fields[k] = j
		} else if j, ok := byAlias[f.Name]; ok {
			p.fields[k] = j
		} else {
			p.fields[k] = -1
		}
	}
	return p
}
