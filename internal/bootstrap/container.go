package bootstrap

import (
	"log"

	"grip-chatbot-be/internal/config"
	"grip-chatbot-be/internal/constant"
	"grip-chatbot-be/internal/controller"
	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/internal/repository/contract"
	"grip-chatbot-be/internal/repository/implementation"
	"grip-chatbot-be/internal/repository/memory"
	"grip-chatbot-be/internal/service"
	"grip-chatbot-be/pkg/embedding"
	"grip-chatbot-be/pkg/llm/factory"
	"grip-chatbot-be/pkg/rag/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	PublisherService service.IPublisherService

	Logger logger.ILogger
}

// NewContainer wires the object graph. A nil db is allowed: the chat
// flow then runs without retrieval context and ingestion is disabled.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGeminiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	// Initialize LLM Provider based on Config
	llmBaseURL := cfg.Ai.LLMBaseURL
	if cfg.Ai.LLMProvider == "ollama" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Ai.OpenAIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	var chunkRepo contract.ContextChunkRepository
	if db != nil {
		chunkRepo = implementation.NewContextChunkRepository(db)
	} else {
		log.Printf("[WARN] No database connection, chat will run without retrieval context")
	}

	retriever := retrieval.NewRetriever(
		embeddingProvider,
		chunkRepo,
		sysLogger,
		cfg.Chat.SimilarityThreshold,
	)

	publisherService := service.NewPublisherService(constant.ChunkIngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.ChunkIngestTopic,
		chunkRepo,
		embeddingProvider,
	)

	chatService := service.NewChatService(
		sessionRepo,
		llmProvider,
		retriever,
		sysLogger,
		cfg.Chat,
	)

	return &Container{
		ChatController: controller.NewChatController(chatService),

		ConsumerService:  consumerService,
		PublisherService: publisherService,

		Logger: sysLogger,
	}
}
