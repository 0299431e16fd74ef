package zavro

import (
	"fmt"
	"sort"
	"sync"
)

// A Context is the registry of named types for one parsed schema.  It is
// populated while parsing and only read afterward, so a Context may be
// shared by any number of concurrent decoders.
type Context struct {
	mu    sync.RWMutex
	types map[string]NamedType
}

func NewContext() *Context {
	return &Context{types: make(map[string]NamedType)}
}

// Lookup returns the type registered under the fully qualified name or
// under one of its aliases, or nil.
func (c *Context) Lookup(name string) NamedType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.types[name]
}

// Register adds typ under its full name and aliases.
func (c *Context) Register(typ NamedType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := append([]string{typ.FullName()}, typ.AliasNames()...)
	for _, name := range names {
		if _, ok := c.types[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}
	for _, name := range names {
		c.types[name] = typ
	}
	return nil
}

// Names returns the full names of the registered types in sorted order.
// Aliases are not included.
func (c *Context) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var names []string
	for name, typ := range c.types {
		if typ.FullName() == name {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
