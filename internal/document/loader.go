// Package document loads a directory of markdown files into plain-text
// documents for the benchmark pipeline.
package document

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// Loader reads markdown files and reduces them to plain text.
type Loader struct {
	parser goldmark.Markdown
	logger *slog.Logger
}

// NewLoader creates a Loader configured with a goldmark parser.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	md := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Loader{
		parser: md,
		logger: logger,
	}
}

// LoadDir loads every .md file in dir (non-recursive) as a Document.
// Unreadable files are logged and skipped; zero loaded documents is an error.
func (l *Loader) LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read document directory %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		source, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("Failed to read document", "path", path, "error", err)
			continue
		}

		doc, err := l.Parse(source)
		if err != nil {
			l.logger.Warn("Failed to parse document", "path", path, "error", err)
			continue
		}

		doc.ID = entry.Name()
		doc.Path = path
		doc.Filename = entry.Name()
		docs = append(docs, doc)
		l.logger.Info("Loaded document", "file", entry.Name(), "chars", len(doc.Text))
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no markdown documents found in %s", dir)
	}
	return docs, nil
}

// Parse converts markdown source into a Document with plain text and title.
// The returned document has no ID or path; LoadDir fills those in.
func (l *Loader) Parse(source []byte) (Document, error) {
	reader := text.NewReader(source)
	root := l.parser.Parser().Parse(reader)

	title, err := extractTitle(root, source)
	if err != nil {
		return Document{}, fmt.Errorf("extract title: %w", err)
	}

	return Document{
		Title: title,
		Text:  extractText(root, source),
	}, nil
}

// extractTitle returns the first top-level heading, or "" if none exists.
func extractTitle(root ast.Node, source []byte) (string, error) {
	tree, err := toc.Inspect(root, source,
		toc.MinDepth(1),
		toc.MaxDepth(1),
		toc.Compact(true),
	)
	if err != nil {
		return "", fmt.Errorf("inspect TOC: %w", err)
	}
	if len(tree.Items) == 0 {
		return "", nil
	}
	return string(tree.Items[0].Title), nil
}

// extractText walks the AST collecting text segments, dropping markdown
// formatting but keeping heading, paragraph, list and code block content.
func extractText(root ast.Node, source []byte) string {
	var buf bytes.Buffer

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Separate block-level elements with a blank line.
			if n.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.FencedCodeBlock:
			writeLines(&buf, v, source)
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			writeLines(&buf, v, source)
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			buf.Write(v.URL(source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return collapseBlankLines(strings.TrimSpace(buf.String()))
}

func writeLines(buf *bytes.Buffer, n ast.Node, source []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
}

// collapseBlankLines squeezes runs of blank lines left behind by nested
// block boundaries down to a single paragraph break.
func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
