// Package splitter provides the chunking strategies under comparison:
// sentence packing, token windows, and per-sentence windows.
package splitter

import (
	"fmt"
	"log/slog"

	"github.com/bull/chunkbench/internal/document"
	"github.com/bull/chunkbench/internal/node"
)

// MaxChunkSize caps chunk sizes to leave headroom under the embedding
// model's input limit.
const MaxChunkSize = 2000

// DefaultWindowSize is the sentence-window neighbor count on each side.
const DefaultWindowSize = 3

// Kind identifies a chunking strategy.
type Kind string

const (
	KindSentence       Kind = "sentence"
	KindToken          Kind = "token"
	KindSentenceWindow Kind = "sentence_window"
)

// DisplayName returns the human-readable strategy name used in reports.
func (k Kind) DisplayName() string {
	switch k {
	case KindSentence:
		return "Sentence Splitting"
	case KindToken:
		return "Token Splitting"
	case KindSentenceWindow:
		return "Sentence Window Splitting"
	default:
		return string(k)
	}
}

// Params configures a splitter. ChunkSize and ChunkOverlap apply to the
// sentence and token kinds; WindowSize applies to sentence_window.
type Params struct {
	ChunkSize    int
	ChunkOverlap int
	WindowSize   int
}

// Splitter produces raw nodes from the document set.
type Splitter interface {
	Kind() Kind
	Split(docs []document.Document) ([]node.Raw, error)
}

// New returns a configured splitter for the given kind.
// Unknown kinds fail before any document processing occurs.
func New(kind Kind, p Params, logger *slog.Logger) (Splitter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch kind {
	case KindSentence:
		size, overlap := clampChunkParams(p.ChunkSize, p.ChunkOverlap, logger)
		return &SentenceSplitter{chunkSize: size, chunkOverlap: overlap}, nil
	case KindToken:
		size, overlap := clampChunkParams(p.ChunkSize, p.ChunkOverlap, logger)
		return NewTokenSplitter(size, overlap)
	case KindSentenceWindow:
		window := p.WindowSize
		if window <= 0 {
			window = DefaultWindowSize
		}
		return &SentenceWindowSplitter{windowSize: window}, nil
	default:
		return nil, fmt.Errorf("unsupported splitter type: %q", kind)
	}
}

// clampChunkParams applies defaults and caps chunk size at MaxChunkSize.
func clampChunkParams(size, overlap int, logger *slog.Logger) (int, int) {
	if size <= 0 {
		size = 512
	}
	if overlap < 0 {
		overlap = 0
	}
	if size > MaxChunkSize {
		logger.Warn("chunk_size exceeds embedding limit, clamping",
			"requested", size, "clamped", MaxChunkSize)
		size = MaxChunkSize
	}
	if overlap >= size {
		logger.Warn("chunk_overlap must be smaller than chunk_size, clamping",
			"requested", overlap, "clamped", size-1)
		overlap = size - 1
	}
	return size, overlap
}
