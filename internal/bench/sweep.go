package bench

import (
	"context"
	"fmt"

	"github.com/bull/chunkbench/internal/config"
	"github.com/bull/chunkbench/internal/document"
	"github.com/bull/chunkbench/internal/splitter"
)

// ParameterCombinations are the (chunk_size, chunk_overlap) pairs swept for
// the sentence and token splitters, in evaluation order.
var ParameterCombinations = []splitter.Params{
	{ChunkSize: 256, ChunkOverlap: 25},
	{ChunkSize: 512, ChunkOverlap: 50},
	{ChunkSize: 1024, ChunkOverlap: 100},
	{ChunkSize: 512, ChunkOverlap: 0},   // no overlap
	{ChunkSize: 512, ChunkOverlap: 128}, // high overlap
}

// sweepKinds are the splitters evaluated for every parameter combination.
var sweepKinds = []splitter.Kind{splitter.KindSentence, splitter.KindToken}

// RunSweep evaluates every parameter combination for the sentence and token
// splitters, then one sentence-window run with default parameters: 11
// evaluations, deterministic order, each fully completed before the next.
//
// Splitter construction failures are configuration-fatal and abort the
// sweep; everything else is recorded per result.
func (e *Evaluator) RunSweep(ctx context.Context, docs []document.Document) ([]Result, error) {
	results := make([]Result, 0, len(ParameterCombinations)*len(sweepKinds)+1)

	for _, params := range ParameterCombinations {
		e.logger.Info("Testing parameter combination",
			"chunk_size", params.ChunkSize, "chunk_overlap", params.ChunkOverlap)

		for _, kind := range sweepKinds {
			sp, err := splitter.New(kind, params, e.logger)
			if err != nil {
				return nil, fmt.Errorf("create %s splitter: %w", kind, err)
			}
			results = append(results, e.Evaluate(ctx, docs, sp, params))
		}
	}

	// Sentence-window run with defaults. The reported chunk parameters are
	// the global defaults; the window size is fixed by the splitter.
	windowSplitter, err := splitter.New(splitter.KindSentenceWindow, splitter.Params{}, e.logger)
	if err != nil {
		return nil, fmt.Errorf("create %s splitter: %w", splitter.KindSentenceWindow, err)
	}
	results = append(results, e.Evaluate(ctx, docs, windowSplitter, splitter.Params{
		ChunkSize:    config.DefaultChunkSize,
		ChunkOverlap: config.DefaultChunkOverlap,
	}))

	return results, nil
}
