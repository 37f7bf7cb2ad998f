package index

import "github.com/bull/chunkbench/internal/node"

// VectorDimension is the embedding size for text-embedding-3-small.
// This matches config.EmbeddingDimension (1536).
const VectorDimension = 1536

// vectorName is the named vector every collection is created with.
const vectorName = "content"

// upsertBatchSize bounds points per upsert request.
const upsertBatchSize = 100

// ScoredNode is a node returned from similarity search with its score.
type ScoredNode struct {
	Node  node.Node
	Score float64
}
