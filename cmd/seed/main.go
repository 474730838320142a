package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/feedgraph/backend/config"
	"github.com/feedgraph/backend/internal/database"
	"github.com/feedgraph/backend/internal/models"
)

// Seeds the demo fixture: one user with one draft post and a profile.
// Safe to run repeatedly; existing rows are left alone.
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

	name := "Alice"
	alice := models.User{Email: "alice@feedgraph.io", Name: &name}
	if err := db.Where(models.User{Email: alice.Email}).FirstOrCreate(&alice).Error; err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	content := "Welcome to Feedgraph"
	post := models.Post{Title: "Hello World", Content: &content, AuthorID: alice.ID}
	if err := db.Where(models.Post{Title: post.Title, AuthorID: alice.ID}).FirstOrCreate(&post).Error; err != nil {
		log.Fatalf("Failed to seed post: %v", err)
	}

	bio := "I like turtles"
	profile := models.Profile{UserID: alice.ID, Bio: &bio}
	if err := db.Where(models.Profile{UserID: alice.ID}).FirstOrCreate(&profile).Error; err != nil {
		log.Fatalf("Failed to seed profile: %v", err)
	}

	log.Printf("Seeded user %d with post %d and profile %d", alice.ID, post.ID, profile.ID)
}
