package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/brimdata/zavro/zqe"
)

// Router dispatches to an Engine by URI scheme.  Engines are created on
// first use so that, for instance, no S3 session is set up unless an s3
// URI is opened.
type Router struct {
	mu      sync.Mutex
	enables map[Scheme]struct{}
	engines map[Scheme]Engine
}

var _ Engine = (*Router)(nil)

func NewRouter() *Router {
	return &Router{
		enables: make(map[Scheme]struct{}),
		engines: make(map[Scheme]Engine),
	}
}

func (r *Router) Enable(scheme Scheme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enables[scheme] = struct{}{}
}

// Set installs engine for scheme and enables it.
func (r *Router) Set(scheme Scheme, engine Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enables[scheme] = struct{}{}
	r.engines[scheme] = engine
}

func (r *Router) lookup(u *URI) (Engine, error) {
	scheme := Scheme(u.Scheme)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.enables[scheme]; !ok {
		return nil, zqe.E(zqe.Invalid, "storage scheme %q not allowed", scheme)
	}
	if engine, ok := r.engines[scheme]; ok {
		return engine, nil
	}
	var engine Engine
	switch scheme {
	case FileScheme:
		engine = NewFileSystem()
	case StdioScheme:
		engine = NewStdio()
	case HTTPScheme, HTTPSScheme:
		engine = NewHTTP()
	case S3Scheme:
		engine = NewS3()
	default:
		return nil, fmt.Errorf("unknown storage scheme %q", scheme)
	}
	r.engines[scheme] = engine
	return engine, nil
}

func (r *Router) Get(ctx context.Context, u *URI) (Reader, error) {
	engine, err := r.lookup(u)
	if err != nil {
		return nil, err
	}
	return engine.Get(ctx, u)
}

func (r *Router) Size(ctx context.Context, u *URI) (int64, error) {
	engine, err := r.lookup(u)
	if err != nil {
		return 0, err
	}
	return engine.Size(ctx, u)
}
