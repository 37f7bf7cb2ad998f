package splitter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bull/chunkbench/internal/document"
	"github.com/bull/chunkbench/internal/node"
)

// SentenceSplitter packs whole sentences into chunks of at most chunkSize
// characters, carrying chunkOverlap trailing characters into the next chunk.
type SentenceSplitter struct {
	chunkSize    int
	chunkOverlap int
}

func (s *SentenceSplitter) Kind() Kind { return KindSentence }

func (s *SentenceSplitter) Split(docs []document.Document) ([]node.Raw, error) {
	var raws []node.Raw
	for _, doc := range docs {
		for i, chunk := range packSentences(splitSentences(doc.Text), s.chunkSize, s.chunkOverlap) {
			raws = append(raws, node.RawStructured{
				Text: chunk,
				Metadata: map[string]any{
					"source":      doc.ID,
					"filename":    doc.Filename,
					"chunk_index": i,
				},
			})
		}
	}
	return raws, nil
}

// splitSentences segments text into sentences. A sentence ends at a run of
// terminator punctuation followed by whitespace, or at a paragraph break.
func splitSentences(text string) []string {
	var sentences []string
	var buf strings.Builder

	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			sentences = append(sentences, s)
		}
		buf.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		// Paragraph break ends the current sentence.
		if r == '\n' && i+1 < len(runes) && runes[i+1] == '\n' {
			flush()
			continue
		}

		buf.WriteRune(r)

		if isTerminator(r) {
			// Consume the rest of the terminator run.
			for i+1 < len(runes) && isTerminator(runes[i+1]) {
				i++
				buf.WriteRune(runes[i])
			}
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				flush()
			}
		}
	}
	flush()

	return sentences
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// packSentences greedily fills chunks with whole sentences. Sentences longer
// than chunkSize are hard-split. Each new chunk is seeded with trailing
// sentences of the previous chunk totalling at most overlap characters.
func packSentences(sentences []string, chunkSize, overlap int) []string {
	var chunks []string
	var current []string
	currentLen := 0
	// tailOnly marks a current buffer holding nothing but the seeded
	// overlap tail; such a buffer is never emitted as a chunk.
	tailOnly := false

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, " "))

		// Seed the next chunk with the overlap tail.
		var tail []string
		tailLen := 0
		for i := len(current) - 1; i >= 0 && overlap > 0; i-- {
			l := utf8.RuneCountInString(current[i])
			if tailLen+l > overlap {
				break
			}
			tail = append([]string{current[i]}, tail...)
			tailLen += l + 1
		}
		current = tail
		currentLen = tailLen
		tailOnly = len(tail) > 0
	}

	for _, sentence := range sentences {
		for _, piece := range hardSplit(sentence, chunkSize) {
			l := utf8.RuneCountInString(piece)
			if currentLen > 0 && currentLen+l+1 > chunkSize {
				flush()
			}
			if currentLen > 0 && currentLen+l+1 > chunkSize {
				// Overlap tail leaves no room for this piece; drop it.
				current = current[:0]
				currentLen = 0
			}
			current = append(current, piece)
			currentLen += l + 1
			tailOnly = false
		}
	}

	if len(current) > 0 && !tailOnly {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// hardSplit slices a single over-long sentence into chunkSize-rune pieces.
func hardSplit(s string, chunkSize int) []string {
	if utf8.RuneCountInString(s) <= chunkSize {
		return []string{s}
	}
	runes := []rune(s)
	var pieces []string
	for start := 0; start < len(runes); start += chunkSize {
		end := min(start+chunkSize, len(runes))
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}
