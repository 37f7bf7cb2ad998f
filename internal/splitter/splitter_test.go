package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnsupportedKind(t *testing.T) {
	_, err := New(Kind("unsupported"), Params{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported splitter type")
}

func TestNew_ClampsOversizedChunks(t *testing.T) {
	sp, err := New(KindSentence, Params{ChunkSize: 5000, ChunkOverlap: 50}, nil)
	require.NoError(t, err)

	sentence, ok := sp.(*SentenceSplitter)
	require.True(t, ok)
	assert.Equal(t, MaxChunkSize, sentence.chunkSize)
	assert.Equal(t, 50, sentence.chunkOverlap)
}

func TestNew_ClampsOverlapBelowChunkSize(t *testing.T) {
	sp, err := New(KindSentence, Params{ChunkSize: 100, ChunkOverlap: 200}, nil)
	require.NoError(t, err)

	sentence := sp.(*SentenceSplitter)
	assert.Equal(t, 100, sentence.chunkSize)
	assert.Equal(t, 99, sentence.chunkOverlap)
}

func TestNew_SentenceWindowDefaults(t *testing.T) {
	sp, err := New(KindSentenceWindow, Params{}, nil)
	require.NoError(t, err)

	window, ok := sp.(*SentenceWindowSplitter)
	require.True(t, ok)
	assert.Equal(t, DefaultWindowSize, window.windowSize)
}

func TestKind_DisplayName(t *testing.T) {
	assert.Equal(t, "Sentence Splitting", KindSentence.DisplayName())
	assert.Equal(t, "Token Splitting", KindToken.DisplayName())
	assert.Equal(t, "Sentence Window Splitting", KindSentenceWindow.DisplayName())
}
