package splitter

import (
	"fmt"
	"strings"

	"github.com/bull/chunkbench/internal/document"
	"github.com/bull/chunkbench/internal/node"
)

// WindowMetadataKey is the metadata key holding the surrounding-sentence
// window; the query engine substitutes it for the node text at answer time.
const WindowMetadataKey = "window"

// OriginalTextMetadataKey holds the single sentence the node was built from.
const OriginalTextMetadataKey = "original_text"

// SentenceWindowSplitter emits one node per sentence, storing the sentence's
// surrounding window (windowSize neighbors on each side) in metadata.
type SentenceWindowSplitter struct {
	windowSize int
}

func (s *SentenceWindowSplitter) Kind() Kind { return KindSentenceWindow }

func (s *SentenceWindowSplitter) Split(docs []document.Document) ([]node.Raw, error) {
	var raws []node.Raw
	for docIndex, doc := range docs {
		// Windowing needs a stable document identifier; tag documents
		// that are missing one.
		docID := doc.ID
		if docID == "" {
			docID = fmt.Sprintf("doc_%d", docIndex)
		}

		sentences := splitSentences(doc.Text)
		for i, sentence := range sentences {
			lo := max(0, i-s.windowSize)
			hi := min(len(sentences), i+s.windowSize+1)

			raws = append(raws, node.RawStructured{
				Text: sentence,
				Metadata: map[string]any{
					"source":                docID,
					"filename":              doc.Filename,
					"chunk_index":           i,
					WindowMetadataKey:       strings.Join(sentences[lo:hi], " "),
					OriginalTextMetadataKey: sentence,
				},
			})
		}
	}
	return raws, nil
}
