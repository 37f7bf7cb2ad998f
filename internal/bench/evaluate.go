// Package bench drives the chunking benchmark: one evaluation per splitter
// configuration, a sequential parameter sweep, and the JSON report.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/bull/chunkbench/internal/config"
	"github.com/bull/chunkbench/internal/document"
	"github.com/bull/chunkbench/internal/index"
	"github.com/bull/chunkbench/internal/node"
	"github.com/bull/chunkbench/internal/query"
	"github.com/bull/chunkbench/internal/splitter"
)

// BenchmarkQueries are the three fixed queries every configuration answers.
var BenchmarkQueries = []string{
	"What is a large language model?",
	"What is the core idea behind retrieval-augmented generation?",
	"What kind of organization is the SCP Foundation?",
}

// Embedder turns node and query texts into embedding vectors.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex is one configuration's built index.
type VectorIndex interface {
	Search(ctx context.Context, embedding []float32, limit int) ([]index.ScoredNode, error)
	Drop(ctx context.Context) error
}

// IndexBuilder constructs a fresh vector index from validated nodes.
type IndexBuilder interface {
	BuildIndex(ctx context.Context, collection string, nodes []node.Node, embeddings [][]float32) (VectorIndex, error)
}

// QdrantBuilder adapts index.Store to the IndexBuilder interface.
type QdrantBuilder struct {
	Store *index.Store
}

func (b QdrantBuilder) BuildIndex(ctx context.Context, collection string, nodes []node.Node, embeddings [][]float32) (VectorIndex, error) {
	return b.Store.BuildIndex(ctx, collection, nodes, embeddings)
}

// Evaluator runs benchmark evaluations against shared collaborators.
// Evaluations are strictly sequential; no state crosses between them except
// the read-only document set.
type Evaluator struct {
	embedder Embedder
	builder  IndexBuilder
	answerer query.Answerer
	logger   *slog.Logger
}

// NewEvaluator creates an Evaluator with the given collaborators.
func NewEvaluator(embedder Embedder, builder IndexBuilder, answerer query.Answerer, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		embedder: embedder,
		builder:  builder,
		answerer: answerer,
		logger:   logger,
	}
}

// Evaluate runs one configuration end to end: split, repair, index, query.
// It always returns a Result; every failure past splitter construction is
// recorded in the result's Error field rather than returned.
func (e *Evaluator) Evaluate(ctx context.Context, docs []document.Document, sp splitter.Splitter, params splitter.Params) Result {
	kind := sp.Kind()
	result := Result{
		SplitterName: kind.DisplayName(),
		SplitterType: string(kind),
		Parameters: &Parameters{
			ChunkSize:    params.ChunkSize,
			ChunkOverlap: params.ChunkOverlap,
		},
	}

	e.logger.Info("Evaluating splitter", "splitter", kind.DisplayName(),
		"chunk_size", params.ChunkSize, "chunk_overlap", params.ChunkOverlap)
	start := time.Now()

	fail := func(msg string) Result {
		result.Error = msg
		result.Statistics = &Statistics{ProcessingTime: roundSeconds(time.Since(start))}
		e.logger.Warn("Evaluation failed", "splitter", kind.DisplayName(), "error", msg)
		return result
	}

	// Produce raw nodes. A nil batch is a recoverable per-configuration
	// error, not a crash.
	raws, err := sp.Split(docs)
	if err != nil {
		return fail(fmt.Sprintf("Splitter failed: %v", err))
	}
	if raws == nil {
		return fail("Splitter returned no output - check documents and splitter configuration")
	}
	e.logger.Info("Produced raw nodes", "count", len(raws))

	// Normalize and repair, then validate lengths.
	nodes := node.NormalizeAll(raws, string(kind), e.logger)
	nodes = node.Clean(nodes, e.logger)
	if len(nodes) == 0 {
		return fail("No valid nodes after text length validation")
	}
	e.logger.Info("Validated nodes", "count", len(nodes))

	nodeCount := len(nodes)
	avgLength := averageLength(nodes)

	// Final guard plus index construction. Embedding happens here because
	// it is part of building the index.
	idx, err := e.buildIndex(ctx, kind, params, nodes)
	if err != nil {
		result.Statistics = &Statistics{
			NodeCount:      nodeCount,
			AvgNodeLength:  avgLength,
			ProcessingTime: roundSeconds(time.Since(start)),
		}
		result.Error = fmt.Sprintf("Index creation failed: %v", err)
		e.logger.Warn("Index creation failed", "splitter", kind.DisplayName(), "error", err)
		return result
	}
	defer func() {
		if err := idx.Drop(ctx); err != nil {
			e.logger.Warn("Failed to drop collection", "error", err)
		}
	}()

	// Run the benchmark queries. Per-query failures are recorded and the
	// remaining queries still run.
	engine := query.NewEngine(e.embedder, idx, e.answerer, config.TopK, kind == splitter.KindSentenceWindow)
	for _, q := range BenchmarkQueries {
		resp, err := engine.Query(ctx, q)
		if err != nil {
			e.logger.Warn("Query failed", "query", q, "error", err)
			result.TestResults = append(result.TestResults, QueryResult{
				Query:       q,
				Response:    fmt.Sprintf("Query failed: %v", err),
				SourceNodes: 0,
			})
			continue
		}
		result.TestResults = append(result.TestResults, QueryResult{
			Query:       q,
			Response:    resp.Answer,
			SourceNodes: resp.SourceNodes,
		})
	}

	result.Statistics = &Statistics{
		NodeCount:      nodeCount,
		AvgNodeLength:  avgLength,
		ProcessingTime: roundSeconds(time.Since(start)),
	}

	e.logger.Info("Evaluation complete", "splitter", kind.DisplayName(),
		"nodes", nodeCount, "avg_length", avgLength,
		"duration", time.Since(start).Round(time.Millisecond))
	return result
}

// buildIndex re-verifies the nodes, embeds them, and constructs the
// configuration's index.
func (e *Evaluator) buildIndex(ctx context.Context, kind splitter.Kind, params splitter.Params, nodes []node.Node) (VectorIndex, error) {
	if err := node.VerifyForIndex(nodes); err != nil {
		return nil, err
	}

	texts := make([]string, len(nodes))
	for i, n := range nodes {
		texts[i] = n.Text
	}
	embeddings, err := e.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embeddings: %w", err)
	}

	return e.builder.BuildIndex(ctx, collectionName(kind, params), nodes, embeddings)
}

// collectionName derives the per-configuration Qdrant collection name.
func collectionName(kind splitter.Kind, params splitter.Params) string {
	return fmt.Sprintf("chunkbench_%s_%d_%d", kind, params.ChunkSize, params.ChunkOverlap)
}

func averageLength(nodes []node.Node) float64 {
	if len(nodes) == 0 {
		return 0
	}
	total := 0
	for _, n := range nodes {
		total += n.Length()
	}
	return round2(float64(total) / float64(len(nodes)))
}

func roundSeconds(d time.Duration) float64 {
	return round2(d.Seconds())
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
