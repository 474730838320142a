package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"

	"github.com/feedgraph/backend/internal/graph"
)

// cacheTTL bounds how long a cached GET query result is served.
const cacheTTL = 30 * time.Second

// graphqlRequest is the standard GraphQL request payload.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// ResponseCache stores rendered GET responses. The Redis-backed
// implementation serves production; tests supply an in-memory one.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// GraphQLHandler serves the single GraphQL endpoint. It executes requests
// against the bound schema with the resolver context attached; the
// response is always the standard {"data": ...}/{"errors": ...} envelope.
type GraphQLHandler struct {
	schema  graphql.Schema
	factory *graph.Factory
	cache   ResponseCache
}

// NewGraphQLHandler creates the endpoint handler. cache may be nil, in
// which case GET responses are never cached.
func NewGraphQLHandler(schema graphql.Schema, factory *graph.Factory, cache ResponseCache) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, factory: factory, cache: cache}
}

// RegisterRoutes registers the endpoint on a route group.
func (h *GraphQLHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/graphql", h.HandlePost)
	rg.GET("/graphql", h.HandleGet)
}

// HandlePost serves GraphQL over POST with a JSON body.
func (h *GraphQLHandler) HandlePost(c *gin.Context) {
	var req graphqlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []gin.H{{"message": "invalid request body"}},
		})
		return
	}
	c.JSON(http.StatusOK, h.execute(c, req))
}

// HandleGet serves GraphQL over GET with query, variables and
// operationName URL parameters. Only query operations are allowed over
// GET; results are cached briefly.
func (h *GraphQLHandler) HandleGet(c *gin.Context) {
	req := graphqlRequest{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []gin.H{{"message": "missing query parameter"}},
		})
		return
	}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"errors": []gin.H{{"message": "variables parameter is not valid JSON"}},
			})
			return
		}
	}
	if !isQueryOperation(req.Query, req.OperationName) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"errors": []gin.H{{"message": "only query operations are allowed over GET"}},
		})
		return
	}

	key := requestCacheKey(req)
	if h.cache != nil {
		if cached, err := h.cache.Get(c.Request.Context(), key); err == nil {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	result := h.execute(c, req)

	if h.cache != nil && len(result.Errors) == 0 {
		if body, err := json.Marshal(result); err == nil {
			if err := h.cache.Set(c.Request.Context(), key, body, cacheTTL); err != nil {
				log.Printf("Failed to cache query result: %v", err)
			}
			c.Data(http.StatusOK, "application/json", body)
			return
		}
	}
	c.JSON(http.StatusOK, result)
}

func (h *GraphQLHandler) execute(c *gin.Context, req graphqlRequest) *graphql.Result {
	ctx := graph.With(c.Request.Context(), h.factory.Context())
	return graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

// isQueryOperation reports whether the operation selected for execution
// is a plain query. Unparseable documents pass through so execution can
// report the syntax error in the standard envelope.
func isQueryOperation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{Body: []byte(query)}),
	})
	if err != nil {
		return true
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation != ast.OperationTypeQuery {
			return false
		}
	}
	return true
}

func requestCacheKey(req graphqlRequest) string {
	vars, _ := json.Marshal(req.Variables)
	h := sha256.New()
	// Fields are hashed with separators so adjacent fields cannot bleed
	// into each other and collide.
	h.Write([]byte(req.Query))
	h.Write([]byte{0})
	h.Write(vars)
	h.Write([]byte{0})
	h.Write([]byte(req.OperationName))
	return "feedgraph:query:" + hex.EncodeToString(h.Sum(nil))
}
