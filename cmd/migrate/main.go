package main

import (
	"log"

	"grip-chatbot-be/internal/config"
	"grip-chatbot-be/internal/model"
	"grip-chatbot-be/pkg/database"
)

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is required")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	// pgvector extension must exist before the vector column migrates.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("Failed to create vector extension: %v", err)
	}

	if err := db.AutoMigrate(&model.ContextChunk{}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("✅ Migration complete")
}
