package vector

import "errors"

var (
	// ErrStore is returned when a vector store operation fails.
	ErrStore = errors.New("vector store operation failed")

	// ErrConnection is returned when the vector store connection fails.
	ErrConnection = errors.New("vector store connection failed")

	// ErrDimensionMismatch is returned when a vector's length disagrees
	// with the collection's configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
