package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"
)

// Request is a standard GraphQL request payload.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
}

// Response is the standard GraphQL response envelope.
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []Error         `json:"errors,omitempty"`
}

// Error is one entry of the response errors array.
type Error struct {
	Message string `json:"message"`
}

// HasErrors reports whether the response carries execution errors.
func (r *Response) HasErrors() bool {
	return len(r.Errors) > 0
}

// Link is a transport that can carry one GraphQL operation.
type Link interface {
	Execute(ctx context.Context, req Request) (*Response, error)
}

// SchemaLink executes operations in process against a bound schema,
// bypassing network transport entirely.
type SchemaLink struct {
	schema graphql.Schema
	wrap   func(context.Context) context.Context
}

// NewSchemaLink binds a link to an executable schema. wrap, when non-nil,
// prepares the execution context for resolvers (injecting the database
// handle); it runs once per operation.
func NewSchemaLink(schema graphql.Schema, wrap func(context.Context) context.Context) *SchemaLink {
	return &SchemaLink{schema: schema, wrap: wrap}
}

func (l *SchemaLink) Execute(ctx context.Context, req Request) (*Response, error) {
	if l.wrap != nil {
		ctx = l.wrap(ctx)
	}

	result := graphql.Do(graphql.Params{
		Schema:         l.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	resp := &Response{}
	if result.Data != nil {
		data, err := json.Marshal(result.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result data: %w", err)
		}
		resp.Data = data
	}
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, Error{Message: e.Message})
	}
	return resp, nil
}

// HTTPLink carries operations as JSON POST requests to a GraphQL endpoint.
type HTTPLink struct {
	endpoint string
	hc       *http.Client
}

// NewHTTPLink creates a link against the given endpoint. A nil client
// falls back to http.DefaultClient.
func NewHTTPLink(endpoint string, hc *http.Client) *HTTPLink {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPLink{endpoint: endpoint, hc: hc}
}

func (l *HTTPLink) Execute(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := l.hc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graphql endpoint returned status %d", httpResp.StatusCode)
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}
