//go:build integration

package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/chunkbench/internal/node"
)

// setupTestStore connects to a local Qdrant, skipping if it isn't running.
func setupTestStore(t *testing.T) *Store {
	store, err := NewStore("localhost", 6334)
	if err != nil {
		t.Skipf("Qdrant not available: %v", err)
	}
	return store
}

func testVector(seed float32) []float32 {
	v := make([]float32, VectorDimension)
	v[0] = 1
	v[1] = seed
	return v
}

func TestBuildSearchDrop(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()

	nodes := []node.Node{
		{ID: "sentence_node_0", Text: "first chunk", Metadata: map[string]any{"source": "a.md", "chunk_index": 0}},
		{ID: "sentence_node_1", Text: "second chunk", Metadata: map[string]any{"source": "a.md", "chunk_index": 1}},
	}
	embeddings := [][]float32{testVector(0.1), testVector(0.9)}

	idx, err := store.BuildIndex(ctx, "chunkbench_test_roundtrip", nodes, embeddings)
	require.NoError(t, err)
	defer idx.Drop(ctx)

	results, err := idx.Search(ctx, testVector(0.1), 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Closest vector first, payload round-trips.
	best := results[0]
	assert.Equal(t, "sentence_node_0", best.Node.ID)
	assert.Equal(t, "first chunk", best.Node.Text)
	assert.Equal(t, "a.md", best.Node.Metadata["source"])
	assert.Equal(t, 0, best.Node.Metadata["chunk_index"])
	assert.Greater(t, best.Score, results[1].Score)
}

func TestBuildIndex_Validation(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()

	_, err := store.BuildIndex(ctx, "chunkbench_test_empty", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyNodeSet)

	_, err = store.BuildIndex(ctx, "chunkbench_test_dims",
		[]node.Node{{ID: "n", Text: "t"}}, [][]float32{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestBuildIndex_ReplacesStaleCollection(t *testing.T) {
	store := setupTestStore(t)
	defer store.Close()

	ctx := context.Background()
	name := "chunkbench_test_replace"

	first, err := store.BuildIndex(ctx, name,
		[]node.Node{{ID: "old", Text: "old"}}, [][]float32{testVector(0.5)})
	require.NoError(t, err)
	_ = first

	second, err := store.BuildIndex(ctx, name,
		[]node.Node{{ID: "new", Text: "new"}}, [][]float32{testVector(0.5)})
	require.NoError(t, err)
	defer second.Drop(ctx)

	results, err := second.Search(ctx, testVector(0.5), 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Node.ID)
}
