// Package client provides an isomorphic GraphQL client: the same API
// executes either in process against a bound schema (server side) or over
// HTTP against a remote endpoint (browser side of the boundary). The
// transport is chosen exactly once, at construction.
package client

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/graphql-go/graphql"
)

// EnvVar flags which side of the isomorphic boundary this process is on.
// Anything other than "browser" means server side.
const EnvVar = "GRAPHQL_CLIENT_ENV"

// Environment pins the transport selection explicitly, overriding EnvVar.
type Environment string

const (
	EnvAuto    Environment = ""
	EnvServer  Environment = "server"
	EnvBrowser Environment = "browser"
)

var (
	// ErrNoSchema is returned when the server-side transport is selected
	// without a schema to bind to.
	ErrNoSchema = errors.New("in-process transport requires a schema")

	// ErrNoEndpoint is returned when the HTTP transport is selected
	// without an endpoint.
	ErrNoEndpoint = errors.New("http transport requires an endpoint")
)

// Options configures a Client.
type Options struct {
	// Environment selects the transport; EnvAuto defers to EnvVar.
	Environment Environment

	// Schema backs the in-process transport.
	Schema *graphql.Schema

	// ContextFunc prepares the execution context for in-process
	// resolvers (for example, injecting the database handle).
	ContextFunc func(context.Context) context.Context

	// Endpoint backs the HTTP transport.
	Endpoint string

	// HTTPClient overrides http.DefaultClient for the HTTP transport.
	HTTPClient *http.Client

	// InitialState hydrates the cache from serialized state.
	InitialState []byte
}

// Client executes GraphQL operations through its configured link and
// serves repeated queries from its cache.
type Client struct {
	link  Link
	cache *Cache
}

// New constructs a client, deciding the transport once: in process when
// the environment is server side, HTTP otherwise.
func New(opts Options) (*Client, error) {
	var link Link
	if serverSide(opts.Environment) {
		if opts.Schema == nil {
			return nil, ErrNoSchema
		}
		link = NewSchemaLink(*opts.Schema, opts.ContextFunc)
	} else {
		if opts.Endpoint == "" {
			return nil, ErrNoEndpoint
		}
		link = NewHTTPLink(opts.Endpoint, opts.HTTPClient)
	}

	cache := NewCache()
	if opts.InitialState != nil {
		if err := cache.Restore(opts.InitialState); err != nil {
			return nil, err
		}
	}

	return &Client{link: link, cache: cache}, nil
}

// Link exposes the selected transport.
func (c *Client) Link() Link {
	return c.link
}

// Cache exposes the client's cache for extraction and inspection.
func (c *Client) Cache() *Cache {
	return c.cache
}

// Query executes a read operation, serving it from the cache when the
// identical operation has been seen (or hydrated) before.
func (c *Client) Query(ctx context.Context, req Request) (*Response, error) {
	if data, ok := c.cache.Get(req); ok {
		return &Response{Data: data}, nil
	}

	resp, err := c.link.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.HasErrors() && resp.Data != nil {
		c.cache.Set(req, resp.Data)
	}
	return resp, nil
}

// Mutate executes a write operation. Mutations always hit the link.
func (c *Client) Mutate(ctx context.Context, req Request) (*Response, error) {
	return c.link.Execute(ctx, req)
}

func serverSide(env Environment) bool {
	switch env {
	case EnvServer:
		return true
	case EnvBrowser:
		return false
	}
	return os.Getenv(EnvVar) != string(EnvBrowser)
}
