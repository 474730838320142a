package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/feedgraph/backend/internal/database"
	"github.com/feedgraph/backend/internal/graph"
	"github.com/feedgraph/backend/internal/models"
)

// fakeCache is an in-memory ResponseCache recording its traffic.
type fakeCache struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	body, ok := f.entries[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return body, nil
}

func (f *fakeCache) Set(_ context.Context, key string, body []byte, ttl time.Duration) error {
	f.entries[key] = body
	f.ttls[key] = ttl
	f.sets++
	return nil
}

func setupRouterWithCache(t *testing.T, cache ResponseCache) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	schema, err := graph.NewSchema()
	require.NoError(t, err)

	router := gin.New()
	handler := NewGraphQLHandler(schema, graph.NewFactory(db), cache)
	handler.RegisterRoutes(router.Group("/api"))
	return router, db
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	return setupRouterWithCache(t, nil)
}

func seedAlice(t *testing.T, db *gorm.DB) {
	t.Helper()
	name := "Alice"
	bio := "I like turtles"
	user := models.User{Email: "alice@feedgraph.io", Name: &name}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Post{Title: "Hello World", AuthorID: user.ID}).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: user.ID, Bio: &bio}).Error)
}

func postGraphQL(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostQueryReturnsDataEnvelope(t *testing.T) {
	router, db := setupRouter(t)
	seedAlice(t, db)

	w := postGraphQL(t, router,
		`{"query": "{ users { email posts { title } profile { bio } } }"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			Users []struct {
				Email string `json:"email"`
				Posts []struct {
					Title string `json:"title"`
				} `json:"posts"`
				Profile struct {
					Bio string `json:"bio"`
				} `json:"profile"`
			} `json:"users"`
		} `json:"data"`
		Errors []json.RawMessage `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Errors)
	require.Len(t, envelope.Data.Users, 1)
	assert.Equal(t, "alice@feedgraph.io", envelope.Data.Users[0].Email)
	require.Len(t, envelope.Data.Users[0].Posts, 1)
	assert.Equal(t, "Hello World", envelope.Data.Users[0].Posts[0].Title)
	assert.Equal(t, "I like turtles", envelope.Data.Users[0].Profile.Bio)
}

func TestPostMutationWithVariables(t *testing.T) {
	router, _ := setupRouter(t)

	body := `{
		"query": "mutation Signup($email: String!, $name: String) { signupUser(email: $email, name: $name) { id email name } }",
		"variables": {"email": "bob@feedgraph.io", "name": "Bob"}
	}`
	w := postGraphQL(t, router, body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"data":{"signupUser":{"id":1,"email":"bob@feedgraph.io","name":"Bob"}}}`,
		w.Body.String())
}

func TestExecutionErrorsUseStandardEnvelope(t *testing.T) {
	router, _ := setupRouter(t)

	w := postGraphQL(t, router, `{"query": "{ nosuchfield }"}`)

	// GraphQL execution errors still travel in a 200 response.
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Errors)
}

func TestPostRejectsMalformedBody(t *testing.T) {
	router, _ := setupRouter(t)

	w := postGraphQL(t, router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetQuery(t *testing.T) {
	router, db := setupRouter(t)
	seedAlice(t, db)

	params := url.Values{}
	params.Set("query", `query User($id: Int!) { user(id: $id) { email } }`)
	params.Set("variables", `{"id": 1}`)

	req := httptest.NewRequest(http.MethodGet, "/api/graphql?"+params.Encode(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"user":{"email":"alice@feedgraph.io"}}}`, w.Body.String())
}

func TestGetRequiresQueryParameter(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/graphql", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRejectsInvalidVariables(t *testing.T) {
	router, _ := setupRouter(t)

	params := url.Values{}
	params.Set("query", `{ users { id } }`)
	params.Set("variables", `not-json`)

	req := httptest.NewRequest(http.MethodGet, "/api/graphql?"+params.Encode(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func getGraphQL(t *testing.T, router *gin.Engine, query string) *httptest.ResponseRecorder {
	t.Helper()
	params := url.Values{}
	params.Set("query", query)
	req := httptest.NewRequest(http.MethodGet, "/api/graphql?"+params.Encode(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetRejectsMutations(t *testing.T) {
	router, db := setupRouter(t)
	seedAlice(t, db)

	w := getGraphQL(t, router, `mutation { publish(id: 1) { id published } }`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	// The write must not have run.
	var post models.Post
	require.NoError(t, db.First(&post, 1).Error)
	assert.False(t, post.Published)
}

func TestGetOperationNameSelectsOperationKind(t *testing.T) {
	router, db := setupRouter(t)
	seedAlice(t, db)

	doc := `query Users { users { id } } mutation Publish { publish(id: 1) { id } }`

	params := url.Values{}
	params.Set("query", doc)
	params.Set("operationName", "Publish")
	req := httptest.NewRequest(http.MethodGet, "/api/graphql?"+params.Encode(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	params.Set("operationName", "Users")
	req = httptest.NewRequest(http.MethodGet, "/api/graphql?"+params.Encode(), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"users"`)
}

func TestGetSyntaxErrorStillUsesStandardEnvelope(t *testing.T) {
	router, _ := setupRouter(t)

	// Unparseable documents fall through to execution, which reports the
	// syntax error in the errors array.
	w := getGraphQL(t, router, `{ users {`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"errors"`)
}

func TestGetCachesQueryResults(t *testing.T) {
	cache := newFakeCache()
	router, db := setupRouterWithCache(t, cache)
	seedAlice(t, db)

	first := getGraphQL(t, router, `{ users { email } }`)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, cache.sets)
	for _, ttl := range cache.ttls {
		assert.Equal(t, cacheTTL, ttl)
	}

	// Change the row underneath; a hit within the TTL serves the cached
	// body untouched and does not store again.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", 1).
		Update("email", "changed@feedgraph.io").Error)

	second := getGraphQL(t, router, `{ users { email } }`)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Body.String(), "alice@feedgraph.io")
	assert.Equal(t, 1, cache.sets)
}

func TestGetCacheMissesOnDifferentQuery(t *testing.T) {
	cache := newFakeCache()
	router, db := setupRouterWithCache(t, cache)
	seedAlice(t, db)

	getGraphQL(t, router, `{ users { email } }`)
	getGraphQL(t, router, `{ users { id } }`)
	assert.Equal(t, 2, cache.sets)
}

func TestGetDoesNotCacheErrorResults(t *testing.T) {
	cache := newFakeCache()
	router, _ := setupRouterWithCache(t, cache)

	w := getGraphQL(t, router, `{ nosuchfield }`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, cache.sets)
}

func TestRequestCacheKeySeparatesFields(t *testing.T) {
	a := requestCacheKey(graphqlRequest{Query: "{a} ", OperationName: "b"})
	b := requestCacheKey(graphqlRequest{Query: "{a}", OperationName: " b"})
	assert.NotEqual(t, a, b)
}
