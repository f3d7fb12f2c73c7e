package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string // e.g. "gpt-4o-mini", "llama3"
	LLMBaseURL        string // OpenAI-compatible base URL override
	OpenAIKey         string
	OllamaBaseURL     string
	EmbeddingProvider string // "ollama" or "gemini"
	EmbeddingModel    string
	GoogleGeminiKey   string
}

// ChatConfig holds the session/context policy knobs.
type ChatConfig struct {
	MaxMessagesBeforeSummary int     // history length that triggers summarization
	IllegalPromptThreshold   int     // consecutive off-topic messages before lockout
	RetrievalTopK            int     // chunks requested per query
	SimilarityThreshold      float64 // minimum cosine similarity for a chunk
	GateFailOpen             bool    // treat classifier failure as legal
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5001"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			OpenAIKey:         getEnv("OPENAI_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			GoogleGeminiKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Chat: ChatConfig{
			MaxMessagesBeforeSummary: getEnvAsInt("MAX_MESSAGES_BEFORE_SUMMARY", 7),
			IllegalPromptThreshold:   getEnvAsInt("ILLEGAL_PROMPT_THRESHOLD", 3),
			RetrievalTopK:            getEnvAsInt("K_RETRIEVAL_CHUNKS", 5),
			SimilarityThreshold:      getEnvAsFloat("SIMILARITY_THRESHOLD", 0.8),
			GateFailOpen:             getEnvAsBool("GATE_FAIL_OPEN", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
