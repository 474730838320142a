package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/feedgraph/backend/config"
	"github.com/feedgraph/backend/internal/database"
	"github.com/feedgraph/backend/internal/graph"
	"github.com/feedgraph/backend/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb, err := database.NewRedisClient(cfg)
	if err != nil {
		// The cache is an optimization, not a dependency.
		log.Printf("Redis unavailable, continuing without response cache: %v", err)
		rdb = nil
	}

	schema, err := graph.NewSchema()
	if err != nil {
		log.Fatalf("Failed to build schema: %v", err)
	}

	srv := server.NewServer(db, rdb, schema)

	log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
	if err := srv.Start(cfg.ServerHost, cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
