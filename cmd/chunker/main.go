package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grip-chatbot-be/internal/config"
	"grip-chatbot-be/internal/constant"
	"grip-chatbot-be/internal/dto"
	"grip-chatbot-be/internal/repository/implementation"
	"grip-chatbot-be/internal/service"
	"grip-chatbot-be/pkg/chunker"
	"grip-chatbot-be/pkg/database"
	"grip-chatbot-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
)

// Offline ingestion tool: splits markdown documents into overlapping
// chunks, embeds them and loads them into the pgvector chunk store.
func main() {
	docsDir := flag.String("dir", "docs", "directory containing markdown documents")
	chunkSize := flag.Int("size", chunker.DefaultChunkSize, "chunk size in characters")
	chunkOverlap := flag.Int("overlap", chunker.DefaultChunkOverlap, "overlap between consecutive chunks")
	replace := flag.Bool("replace", true, "delete previously ingested chunks of each file first")
	flag.Parse()

	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is required for ingestion")
	}
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}
	chunkRepo := implementation.NewContextChunkRepository(db)

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGeminiKey)
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	publisher := service.NewPublisherService(constant.ChunkIngestTopic, pubSub)
	consumer := service.NewConsumerService(pubSub, constant.ChunkIngestTopic, chunkRepo, embeddingProvider)

	ctx := context.Background()
	if err := consumer.Consume(ctx); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}

	files, err := collectMarkdownFiles(*docsDir)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", *docsDir, err)
	}
	if len(files) == 0 {
		color.Yellow("No markdown files found in %s", *docsDir)
		return
	}

	splitter := chunker.New(*chunkSize, *chunkOverlap)

	published := int64(0)
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			color.Red("✗ %s: %v", path, err)
			continue
		}

		fileName := filepath.Base(path)
		chunks := splitter.ChunkFile(fileName, string(raw))
		if len(chunks) == 0 {
			color.Yellow("- %s: empty after preparation, skipped", fileName)
			continue
		}

		if *replace {
			if deleted, err := chunkRepo.DeleteBySourceFile(ctx, fileName); err != nil {
				color.Red("✗ %s: failed to delete stale chunks: %v", fileName, err)
				continue
			} else if deleted > 0 {
				color.Yellow("- %s: replaced %d stale chunks", fileName, deleted)
			}
		}

		for _, ch := range chunks {
			msg := &dto.PublishChunkMessage{
				Title:       ch.Title,
				Content:     ch.Content,
				SourceFile:  ch.SourceFile,
				ChunkNumber: ch.Number,
				Metadata:    ch.Metadata,
			}
			if err := publisher.PublishChunk(ctx, msg); err != nil {
				color.Red("✗ %s: publish failed: %v", ch.Title, err)
				continue
			}
			published++
		}
		color.Green("✓ %s: %d chunks published", fileName, len(chunks))
	}

	// Drain the topic before exiting.
	for consumer.Processed() < published {
		time.Sleep(100 * time.Millisecond)
	}
	if err := pubSub.Close(); err != nil {
		log.Printf("Failed to close pubsub: %v", err)
	}

	total, err := chunkRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count stored chunks: %v", err)
	}
	color.Cyan("Done. %d chunks processed, %d chunks now in store.", consumer.Processed(), total)
}

func collectMarkdownFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".md" || ext == ".markdown" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
