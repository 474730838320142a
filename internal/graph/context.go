package graph

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNoContext is returned when a resolver runs outside a request context
// prepared by a Factory.
var ErrNoContext = errors.New("no resolver context present")

// Context carries the shared handles resolvers need for one request.
type Context struct {
	DB *gorm.DB
}

// Factory hands out the resolver context. The wrapped database handle is
// constructed once per process and injected here, so every call returns
// the same handle rather than a fresh connection.
type Factory struct {
	ctx *Context
}

// NewFactory creates a Factory around the given database handle.
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{ctx: &Context{DB: db}}
}

// Context returns the shared resolver context.
func (f *Factory) Context() *Context {
	return f.ctx
}

type contextKey struct{}

// With attaches the resolver context to a request context.
func With(parent context.Context, gc *Context) context.Context {
	return context.WithValue(parent, contextKey{}, gc)
}

// From extracts the resolver context attached by With.
func From(ctx context.Context) (*Context, error) {
	gc, ok := ctx.Value(contextKey{}).(*Context)
	if !ok || gc == nil {
		return nil, ErrNoContext
	}
	return gc, nil
}
