package query

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/chunkbench/internal/index"
	"github.com/bull/chunkbench/internal/node"
	"github.com/bull/chunkbench/internal/splitter"
)

type fakeEmbedder struct {
	err error
}

func (f fakeEmbedder) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = make([]float32, index.VectorDimension)
	}
	return embeddings, nil
}

type fakeSearcher struct {
	results []index.ScoredNode
	err     error
	gotTopK int
}

func (f *fakeSearcher) Search(_ context.Context, _ []float32, limit int) ([]index.ScoredNode, error) {
	f.gotTopK = limit
	return f.results, f.err
}

type fakeAnswerer struct {
	gotContexts []string
	err         error
}

func (f *fakeAnswerer) Answer(_ context.Context, _ string, contexts []string) (string, error) {
	f.gotContexts = contexts
	if f.err != nil {
		return "", f.err
	}
	return "an answer", nil
}

func scoredNode(text string, metadata map[string]any) index.ScoredNode {
	return index.ScoredNode{
		Node:  node.Node{ID: "n", Text: text, Metadata: metadata},
		Score: 0.9,
	}
}

func TestEngine_Query(t *testing.T) {
	searcher := &fakeSearcher{results: []index.ScoredNode{
		scoredNode("chunk one", nil),
		scoredNode("chunk two", nil),
	}}
	answerer := &fakeAnswerer{}

	engine := NewEngine(fakeEmbedder{}, searcher, answerer, 3, false)
	resp, err := engine.Query(context.Background(), "what is this?")
	require.NoError(t, err)

	assert.Equal(t, "an answer", resp.Answer)
	assert.Equal(t, 2, resp.SourceNodes)
	assert.Equal(t, 3, searcher.gotTopK)
	assert.Equal(t, []string{"chunk one", "chunk two"}, answerer.gotContexts)
}

func TestEngine_WindowReplacement(t *testing.T) {
	searcher := &fakeSearcher{results: []index.ScoredNode{
		scoredNode("single sentence", map[string]any{
			splitter.WindowMetadataKey: "before single sentence after",
		}),
		scoredNode("no window here", nil),
	}}
	answerer := &fakeAnswerer{}

	engine := NewEngine(fakeEmbedder{}, searcher, answerer, 3, true)
	_, err := engine.Query(context.Background(), "q")
	require.NoError(t, err)

	// The first node's window replaces its text; the second falls back.
	assert.Equal(t, []string{
		"before single sentence after",
		"no window here",
	}, answerer.gotContexts)
}

func TestEngine_NoReplacementWithoutFlag(t *testing.T) {
	searcher := &fakeSearcher{results: []index.ScoredNode{
		scoredNode("single sentence", map[string]any{
			splitter.WindowMetadataKey: "before single sentence after",
		}),
	}}
	answerer := &fakeAnswerer{}

	engine := NewEngine(fakeEmbedder{}, searcher, answerer, 3, false)
	_, err := engine.Query(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"single sentence"}, answerer.gotContexts)
}

func TestEngine_ErrorPaths(t *testing.T) {
	boom := fmt.Errorf("boom")

	_, err := NewEngine(fakeEmbedder{err: boom}, &fakeSearcher{}, &fakeAnswerer{}, 3, false).
		Query(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "embed query"))

	_, err = NewEngine(fakeEmbedder{}, &fakeSearcher{err: boom}, &fakeAnswerer{}, 3, false).
		Query(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "search"))

	_, err = NewEngine(fakeEmbedder{}, &fakeSearcher{}, &fakeAnswerer{err: boom}, 3, false).
		Query(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "answer"))
}
