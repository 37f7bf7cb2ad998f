// Package index builds per-configuration vector indexes in Qdrant and runs
// similarity search over them.
package index

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/bull/chunkbench/internal/node"
)

// Store wraps the Qdrant client with connection management. One Store is
// shared by all benchmark configurations; each configuration gets its own
// short-lived collection.
type Store struct {
	client *qdrant.Client
	host   string
	port   int
}

// NewStore creates a Qdrant client and validates connectivity.
// The health check retries with exponential backoff and fails fast if
// Qdrant stays unreachable.
func NewStore(host string, port int) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	store := &Store{
		client: client,
		host:   host,
		port:   port,
	}

	if err := store.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrQdrantUnreachable, err)
	}

	return store, nil
}

// healthCheckWithRetry performs health checks with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *Store) healthCheckWithRetry(ctx context.Context) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, exponentialBackoff)
}

// Health performs a single health check against Qdrant.
func (s *Store) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// Close closes the Qdrant client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Index is one configuration's vector index: a dedicated Qdrant collection
// holding that configuration's nodes. Dropped after the evaluation.
type Index struct {
	store      *Store
	collection string
}

// BuildIndex creates a fresh collection named collection and upserts every
// node with its embedding. A pre-existing collection with the same name is
// replaced, so reruns never see stale vectors.
func (s *Store) BuildIndex(ctx context.Context, collection string, nodes []node.Node, embeddings [][]float32) (*Index, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyNodeSet
	}
	if len(nodes) != len(embeddings) {
		return nil, fmt.Errorf("node/embedding count mismatch: %d nodes, %d embeddings",
			len(nodes), len(embeddings))
	}
	for i, embedding := range embeddings {
		if len(embedding) != VectorDimension {
			return nil, fmt.Errorf("%w: node %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(embedding), VectorDimension)
		}
	}

	if err := s.recreateCollection(ctx, collection); err != nil {
		return nil, err
	}

	idx := &Index{store: s, collection: collection}
	if err := idx.upsertNodes(ctx, nodes, embeddings); err != nil {
		return nil, err
	}
	return idx, nil
}

// recreateCollection drops any existing collection of the same name and
// creates it with a single named cosine vector.
func (s *Store) recreateCollection(ctx context.Context, collection string) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	for _, name := range collections {
		if name == collection {
			if err := s.client.DeleteCollection(ctx, collection); err != nil {
				return fmt.Errorf("failed to delete stale collection: %w", err)
			}
			break
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			vectorName: {
				Size:     VectorDimension,
				Distance: qdrant.Distance_Cosine,
			},
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// upsertNodes stores nodes with embeddings in batches of upsertBatchSize.
func (idx *Index) upsertNodes(ctx context.Context, nodes []node.Node, embeddings [][]float32) error {
	for i := 0; i < len(nodes); i += upsertBatchSize {
		end := min(i+upsertBatchSize, len(nodes))

		points := make([]*qdrant.PointStruct, 0, end-i)
		for j := i; j < end; j++ {
			n := nodes[j]

			payload := map[string]any{
				"node_id": n.ID,
				"text":    n.Text,
			}
			for k, v := range n.Metadata {
				payload[k] = v
			}

			points = append(points, &qdrant.PointStruct{
				Id: qdrant.NewIDUUID(uuid.New().String()),
				Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
					vectorName: qdrant.NewVector(embeddings[j]...),
				}),
				Payload: qdrant.NewValueMap(payload),
			})
		}

		if err := idx.upsertWithRetry(ctx, points); err != nil {
			return fmt.Errorf("failed to upsert batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// upsertWithRetry performs an upsert with exponential backoff.
func (idx *Index) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		_, err := idx.store.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: idx.collection,
			Points:         points,
		})
		return err
	}, exponentialBackoff)
}

// Search performs vector similarity search and returns the top limit nodes
// ordered by score descending.
func (idx *Index) Search(ctx context.Context, embedding []float32, limit int) ([]ScoredNode, error) {
	if len(embedding) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(embedding), VectorDimension)
	}

	name := vectorName
	results, err := idx.store.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: idx.collection,
		Query:          qdrant.NewQuery(embedding...),
		Using:          &name,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search nodes: %w", err)
	}

	scored := make([]ScoredNode, 0, len(results))
	for _, result := range results {
		payload := result.Payload

		n := node.Node{
			ID:       payload["node_id"].GetStringValue(),
			Text:     payload["text"].GetStringValue(),
			Metadata: payloadToMetadata(payload),
		}
		scored = append(scored, ScoredNode{
			Node:  n,
			Score: float64(result.Score),
		})
	}
	return scored, nil
}

// Drop deletes the configuration's collection.
func (idx *Index) Drop(ctx context.Context) error {
	if err := idx.store.client.DeleteCollection(ctx, idx.collection); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", idx.collection, err)
	}
	return nil
}

// payloadToMetadata rebuilds node metadata from the Qdrant payload,
// excluding the node_id and text fields stored alongside it.
func payloadToMetadata(payload map[string]*qdrant.Value) map[string]any {
	metadata := make(map[string]any, len(payload))
	for key, value := range payload {
		if key == "node_id" || key == "text" {
			continue
		}
		switch v := value.Kind.(type) {
		case *qdrant.Value_StringValue:
			metadata[key] = v.StringValue
		case *qdrant.Value_IntegerValue:
			metadata[key] = int(v.IntegerValue)
		case *qdrant.Value_DoubleValue:
			metadata[key] = v.DoubleValue
		case *qdrant.Value_BoolValue:
			metadata[key] = v.BoolValue
		}
	}
	if len(metadata) == 0 {
		return nil
	}
	return metadata
}
