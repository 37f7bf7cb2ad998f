// Package node normalizes heterogeneous splitter output into well-formed,
// length-bounded nodes the vector index can accept.
package node

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	// MinLength and MaxLength bound node text handed to the index.
	// MaxLength leaves headroom under the embedding model's input limit.
	MinLength = 1
	MaxLength = 2048
)

// Node is a chunk of text with a stable identifier and source metadata.
type Node struct {
	ID       string
	Text     string
	Metadata map[string]any
}

// Length returns the node text length in characters.
func (n Node) Length() int {
	return utf8.RuneCountInString(n.Text)
}

// Raw is the closed set of shapes a splitter may emit. Normalize coerces
// each shape into a Node or skips it with a reason.
type Raw interface {
	raw()
}

// RawText is a bare chunk of text with no identity or metadata.
type RawText string

func (RawText) raw() {}

// RawStructured already carries text and optionally an ID and metadata.
type RawStructured struct {
	ID       string
	Text     string
	Metadata map[string]any
}

func (RawStructured) raw() {}

// RawForeign wraps a value of unknown shape; Normalize attempts best-effort
// text extraction from it.
type RawForeign struct {
	Value any
}

func (RawForeign) raw() {}

// textProvider and contentProvider are the accessors Normalize probes on
// foreign values, in order, before falling back to string conversion.
type textProvider interface {
	Text() string
}

type contentProvider interface {
	Content() string
}

// Normalize coerces a single raw item into a Node.
//
// Plain text is wrapped with a synthesized ID and metadata. Structured items
// are kept as-is, synthesizing an ID only if empty. Foreign items get
// best-effort text extraction; when no text can be recovered the item is
// skipped with a non-nil error.
func Normalize(raw Raw, kind string, index int) (Node, error) {
	switch v := raw.(type) {
	case RawText:
		return Node{
			ID:       fmt.Sprintf("%s_node_%d", kind, index),
			Text:     string(v),
			Metadata: synthesizedMetadata(index),
		}, nil

	case RawStructured:
		n := Node{ID: v.ID, Text: v.Text, Metadata: v.Metadata}
		if n.ID == "" {
			n.ID = fmt.Sprintf("%s_node_%d", kind, index)
		}
		return n, nil

	case RawForeign:
		text, err := extractText(v.Value)
		if err != nil {
			return Node{}, fmt.Errorf("node %d: %w", index, err)
		}
		return Node{
			ID:       fmt.Sprintf("%s_node_%d", kind, index),
			Text:     text,
			Metadata: synthesizedMetadata(index),
		}, nil

	default:
		return Node{}, fmt.Errorf("node %d: unknown raw shape %T", index, raw)
	}
}

// NormalizeAll normalizes a full raw batch, skipping and logging items that
// cannot be coerced. One bad item never aborts the batch.
func NormalizeAll(raws []Raw, kind string, logger *slog.Logger) []Node {
	if logger == nil {
		logger = slog.Default()
	}

	nodes := make([]Node, 0, len(raws))
	for i, raw := range raws {
		n, err := Normalize(raw, kind, i)
		if err != nil {
			logger.Warn("Skipping unusable node", "error", err)
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// extractText probes a foreign value for text: a Text accessor first, then a
// Content accessor, then string conversion.
func extractText(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", fmt.Errorf("nil value")
	case string:
		return v, nil
	case textProvider:
		return v.Text(), nil
	case contentProvider:
		return v.Content(), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("no text accessor on %T", value)
	}
}

func synthesizedMetadata(index int) map[string]any {
	return map[string]any{
		"source":   fmt.Sprintf("document_%d", index/10),
		"chunk_id": index,
	}
}

// Clean validates node text lengths: trims surrounding whitespace, drops
// nodes shorter than MinLength, and truncates over-long nodes to exactly
// the MaxLength-rune prefix.
func Clean(nodes []Node, logger *slog.Logger) []Node {
	if logger == nil {
		logger = slog.Default()
	}

	cleaned := make([]Node, 0, len(nodes))
	for i, n := range nodes {
		text := strings.TrimSpace(n.Text)

		length := utf8.RuneCountInString(text)
		if length < MinLength {
			logger.Warn("Dropping node: text too short", "index", i, "length", length)
			continue
		}

		if length > MaxLength {
			runes := []rune(text)
			text = string(runes[:MaxLength])
			logger.Warn("Truncated node", "index", i,
				"original_length", length, "new_length", MaxLength)
		}

		n.Text = text
		cleaned = append(cleaned, n)
	}
	return cleaned
}

// VerifyForIndex re-checks every node before index construction: non-empty
// text, non-empty ID, and length within [MinLength, MaxLength]. A violation
// aborts only the current configuration's evaluation.
func VerifyForIndex(nodes []Node) error {
	if len(nodes) == 0 {
		return fmt.Errorf("no nodes to index")
	}
	for i, n := range nodes {
		if n.ID == "" {
			return fmt.Errorf("invalid node at index %d: missing id", i)
		}
		length := n.Length()
		if length < MinLength || length > MaxLength {
			return fmt.Errorf("invalid text length at node %d: %d (should be %d-%d)",
				i, length, MinLength, MaxLength)
		}
	}
	return nil
}
