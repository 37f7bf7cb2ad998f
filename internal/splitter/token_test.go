package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/chunkbench/internal/document"
	"github.com/bull/chunkbench/internal/node"
)

// newTokenSplitterOrSkip skips when the BPE encoding files cannot be loaded
// (tiktoken fetches them on first use).
func newTokenSplitterOrSkip(t *testing.T, chunkSize, chunkOverlap int) *TokenSplitter {
	t.Helper()
	sp, err := NewTokenSplitter(chunkSize, chunkOverlap)
	if err != nil {
		t.Skipf("cl100k_base encoding unavailable: %v", err)
	}
	return sp
}

func TestTokenSplitter_SplitsLongText(t *testing.T) {
	sp := newTokenSplitterOrSkip(t, 20, 0)

	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	raws, err := sp.Split([]document.Document{{ID: "a.md", Text: text}})
	require.NoError(t, err)
	require.Greater(t, len(raws), 1)

	// Every emitted chunk stays within the token budget.
	for _, raw := range raws {
		structured := raw.(node.RawStructured)
		tokens := sp.encoder.Encode(structured.Text, nil, nil)
		assert.LessOrEqual(t, len(tokens), 20+1) // trim may shift token boundaries
	}
}

func TestTokenSplitter_OverlapProducesMoreChunks(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 40)
	docs := []document.Document{{ID: "a.md", Text: text}}

	noOverlap := newTokenSplitterOrSkip(t, 30, 0)
	withOverlap := newTokenSplitterOrSkip(t, 30, 15)

	plain, err := noOverlap.Split(docs)
	require.NoError(t, err)
	overlapped, err := withOverlap.Split(docs)
	require.NoError(t, err)

	assert.Greater(t, len(overlapped), len(plain))
}

func TestTokenSplitter_ShortTextSingleChunk(t *testing.T) {
	sp := newTokenSplitterOrSkip(t, 512, 50)

	raws, err := sp.Split([]document.Document{{ID: "a.md", Text: "Just a short sentence."}})
	require.NoError(t, err)
	require.Len(t, raws, 1)

	structured := raws[0].(node.RawStructured)
	assert.Equal(t, "Just a short sentence.", structured.Text)
	assert.Equal(t, 0, structured.Metadata["chunk_index"])
}
