// Package config holds the benchmark configuration, loaded once from the
// environment and threaded through the pipeline explicitly.
package config

import (
	"fmt"
	"os"
)

const (
	// EmbeddingModel is the OpenAI model used for generating embeddings.
	EmbeddingModel = "text-embedding-3-small"

	// EmbeddingDimension is the vector dimension for text-embedding-3-small.
	EmbeddingDimension = 1536

	// ChatModel answers the benchmark queries.
	ChatModel = "gpt-4o-mini"

	// AnswerMaxTokens bounds the length of generated answers.
	AnswerMaxTokens = 1024

	// DefaultChunkSize and DefaultChunkOverlap are the splitter defaults.
	DefaultChunkSize    = 512
	DefaultChunkOverlap = 50

	// TopK is the number of source nodes retrieved per query.
	TopK = 3
)

// Config is the resolved runtime configuration for a benchmark run.
type Config struct {
	OpenAIAPIKey string
	QdrantHost   string
	QdrantPort   int
	DataDir      string
	OutputFile   string
}

// FromEnv builds a Config from environment variables.
// It fails if OPENAI_API_KEY is not set; everything else has defaults.
func FromEnv() (*Config, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	return &Config{
		OpenAIAPIKey: apiKey,
		QdrantHost:   getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:   getEnvInt("QDRANT_PORT", 6334),
		DataDir:      getEnv("CHUNKBENCH_DATA_DIR", "data/documents"),
		OutputFile:   getEnv("CHUNKBENCH_OUTPUT", "experiment_results.json"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
