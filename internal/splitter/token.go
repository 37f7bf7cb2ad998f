package splitter

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/bull/chunkbench/internal/document"
	"github.com/bull/chunkbench/internal/node"
)

// tokenEncoding is the BPE encoding used for token counting. cl100k_base
// matches the OpenAI embedding and chat models in use.
const tokenEncoding = "cl100k_base"

// TokenSplitter emits windows of chunkSize tokens, advancing by
// chunkSize-chunkOverlap tokens per step.
type TokenSplitter struct {
	encoder      *tiktoken.Tiktoken
	chunkSize    int
	chunkOverlap int
}

// NewTokenSplitter creates a token splitter backed by the cl100k_base
// encoding. Fails if the encoding cannot be loaded.
func NewTokenSplitter(chunkSize, chunkOverlap int) (*TokenSplitter, error) {
	encoder, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", tokenEncoding, err)
	}
	return &TokenSplitter{
		encoder:      encoder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

func (s *TokenSplitter) Kind() Kind { return KindToken }

func (s *TokenSplitter) Split(docs []document.Document) ([]node.Raw, error) {
	var raws []node.Raw
	for _, doc := range docs {
		tokens := s.encoder.Encode(doc.Text, nil, nil)

		step := s.chunkSize - s.chunkOverlap
		if step < 1 {
			step = 1
		}

		chunkIndex := 0
		for start := 0; start < len(tokens); start += step {
			end := min(start+s.chunkSize, len(tokens))

			text := strings.TrimSpace(s.encoder.Decode(tokens[start:end]))
			if text != "" {
				raws = append(raws, node.RawStructured{
					Text: text,
					Metadata: map[string]any{
						"source":      doc.ID,
						"filename":    doc.Filename,
						"chunk_index": chunkIndex,
					},
				})
				chunkIndex++
			}

			if end == len(tokens) {
				break
			}
		}
	}
	return raws, nil
}
