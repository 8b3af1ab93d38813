// Package embeddings
package embeddings

import (
	"context"
	"errors"
)

// ErrEmbedding is returned when the embedding service fails. The underlying
// cause is wrapped alongside it.
var ErrEmbedding = errors.New("embedding service failed")

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts a batch of texts into vector embeddings.
	// The returned slice is aligned by position with the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Ping checks that the embedding service is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the embedder.
	Close() error
}
