// Package vector provides interfaces and implementations for vector storage.
package vector

import (
	"context"

	"github.com/NimanthaSupun/localrag/pkg/chunker"
)

// Point is a stored item: an embedding vector with its chunk payload.
type Point struct {
	// ID is a unique identifier for the point, generated at ingest time.
	ID string

	// Vector is the embedding of the chunk text. Its length must equal the
	// collection's configured dimension.
	Vector []float32

	// Payload is the chunk the vector was computed from.
	Payload chunker.Chunk
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	// Payload is the stored chunk.
	Payload chunker.Chunk `json:"chunk"`

	// Score represents the similarity score (higher = more similar).
	Score float32 `json:"score"`
}

// Store handles storage and retrieval of embedded document chunks in a named
// collection.
type Store interface {
	// EnsureCollection creates the collection if it does not exist.
	// Idempotent; a collection that exists with a different vector
	// dimension fails with ErrDimensionMismatch.
	EnsureCollection(ctx context.Context) error

	// Upsert stores points. Every vector is checked against the configured
	// dimension before anything is written; a mismatch fails the whole call
	// with ErrDimensionMismatch.
	Upsert(ctx context.Context, points []Point) error

	// Search returns up to topK results ordered by descending similarity.
	// topK larger than the collection returns all available points.
	Search(ctx context.Context, vector []float32, topK int) ([]QueryResult, error)

	// Reset deletes and recreates the empty collection. Destructive and
	// idempotent.
	Reset(ctx context.Context) error

	// Count returns the number of stored points.
	Count(ctx context.Context) (uint64, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
