package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/feedgraph/backend/internal/api"
	"github.com/feedgraph/backend/internal/graph"
	"github.com/feedgraph/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// NewServer wires middleware and routes around the executable schema.
// rdb may be nil; the service runs without response caching then.
func NewServer(db *gorm.DB, rdb *redis.Client, schema graphql.Schema) *Server {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(nil))

	factory := graph.NewFactory(db)

	var cache api.ResponseCache
	if rdb != nil {
		cache = api.NewRedisResponseCache(rdb)
	}

	graphqlHandler := api.NewGraphQLHandler(schema, factory, cache)
	graphqlHandler.RegisterRoutes(router.Group("/api"))

	healthHandler := api.NewHealthHandler(db, rdb)
	healthHandler.RegisterRoutes(router)

	return &Server{router: router}
}

// Router exposes the gin engine, primarily for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the server and blocks until shutdown
func (s *Server) Start(host, port string) error {
	s.http = &http.Server{
		Addr:    host + ":" + port,
		Handler: s.router,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
