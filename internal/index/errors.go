package index

import "errors"

var (
	ErrQdrantUnreachable = errors.New("qdrant server unreachable")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrEmptyNodeSet      = errors.New("no nodes to index")
)
