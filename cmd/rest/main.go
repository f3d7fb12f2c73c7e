package main

import (
	"context"
	"log"

	"grip-chatbot-be/internal/bootstrap"
	"grip-chatbot-be/internal/config"
	"grip-chatbot-be/internal/server"
	"grip-chatbot-be/internal/tracer"
	"grip-chatbot-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database. The chat API stays up without it, only
	// retrieval context is lost.
	var gormDB *gorm.DB
	if cfg.Database.Connection == "" {
		log.Println("[WARN] DB_CONNECTION_STRING not set, starting without a chunk store")
	} else {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Printf("[WARN] Unable to connect to GORM DB: %v, starting without a chunk store", err)
		} else {
			gormDB = db
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
