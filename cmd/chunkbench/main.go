// Package main provides the chunkbench CLI: a benchmark comparing
// text-chunking strategies for retrieval-augmented generation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/chunkbench/internal/bench"
	"github.com/bull/chunkbench/internal/config"
	"github.com/bull/chunkbench/internal/document"
	"github.com/bull/chunkbench/internal/embedding"
	ghclient "github.com/bull/chunkbench/internal/github"
	"github.com/bull/chunkbench/internal/index"
	"github.com/bull/chunkbench/internal/query"
)

var rootCmd = &cobra.Command{
	Use:   "chunkbench",
	Short: "Text chunking strategy benchmark for RAG",
	Long:  "Compares sentence, token and sentence-window chunking across a parameter sweep and reports timing and answer quality per configuration.",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full chunking benchmark",
	Long: `Loads the markdown corpus, evaluates every splitter configuration
(5 parameter combinations x sentence/token splitters, plus one
sentence-window run), and writes experiment_results.json.

Environment variables:
  OPENAI_API_KEY       OpenAI API key (required)
  QDRANT_HOST          Qdrant hostname (default: localhost)
  QDRANT_PORT          Qdrant gRPC port (default: 6334)
  CHUNKBENCH_DATA_DIR  Markdown corpus directory (default: data/documents)
  CHUNKBENCH_OUTPUT    Report path (default: experiment_results.json)`,
	RunE: runBenchmark,
}

var (
	fetchOwner string
	fetchRepo  string
	fetchPath  string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a markdown corpus from GitHub into the data directory",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOwner, "owner", "", "repository owner (required)")
	fetchCmd.Flags().StringVar(&fetchRepo, "repo", "", "repository name (required)")
	fetchCmd.Flags().StringVar(&fetchPath, "path", "", "path within the repository to fetch from")
	_ = fetchCmd.MarkFlagRequired("owner")
	_ = fetchCmd.MarkFlagRequired("repo")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(fetchCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()
	logger := slog.Default()

	fmt.Println("Starting chunking benchmark...")
	fmt.Println()

	// 1. Resolve configuration. The API key gates everything else.
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Println("OPENAI_API_KEY is not set.")
		fmt.Println("Set it with: export OPENAI_API_KEY='your_api_key'")
		return err
	}

	// 2. Load the document corpus, reused read-only across all runs.
	fmt.Printf("Loading documents from %s...\n", cfg.DataDir)
	docs, err := document.NewLoader(logger).LoadDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	fmt.Printf("Loaded %d documents\n", len(docs))

	// 3. Connect to Qdrant.
	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.QdrantHost, cfg.QdrantPort)
	store, err := index.NewStore(cfg.QdrantHost, cfg.QdrantPort)
	if err != nil {
		return fmt.Errorf("connect to Qdrant: %w", err)
	}
	defer store.Close()
	fmt.Println("Qdrant healthy")

	// 4. Initialize the OpenAI-backed collaborators.
	client, err := embedding.NewClient(cfg.OpenAIAPIKey)
	if err != nil {
		return fmt.Errorf("create OpenAI client: %w", err)
	}
	embedder := embedding.NewEmbedder(client, 0)
	answerer := query.NewOpenAIAnswerer(client.Client())

	// 5. Run the sweep.
	fmt.Println()
	fmt.Println("Running parameter sweep...")
	evaluator := bench.NewEvaluator(embedder, bench.QdrantBuilder{Store: store}, answerer, logger)
	results, err := evaluator.RunSweep(ctx, docs)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	// 6. Save and summarize.
	if err := bench.SaveResults(results, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Printf("\nResults saved to %s\n", cfg.OutputFile)

	bench.PrintSummary(os.Stdout, results)

	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Second))
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := slog.Default()

	dataDir := getEnv("CHUNKBENCH_DATA_DIR", "data/documents")

	client, err := ghclient.NewClient()
	if err != nil {
		return fmt.Errorf("create GitHub client: %w", err)
	}
	fetcher := ghclient.NewFetcher(client, fetchOwner, fetchRepo, fetchPath, logger)

	fmt.Printf("Fetching markdown from %s/%s/%s into %s...\n",
		fetchOwner, fetchRepo, fetchPath, dataDir)
	written, err := fetcher.DownloadAll(ctx, dataDir)
	if err != nil {
		return fmt.Errorf("fetch corpus: %w", err)
	}

	fmt.Printf("Fetched %d documents\n", written)
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
