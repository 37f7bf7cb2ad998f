package document

// Document is a loaded corpus document. Documents are immutable inputs:
// loaded once and shared read-only across all benchmark configurations.
type Document struct {
	ID       string // Stable identifier, defaults to the relative path
	Path     string // Absolute path on disk
	Filename string // Base name: "transformers.md"
	Title    string // First heading in the document, if any
	Text     string // Plain text extracted from the markdown
}
