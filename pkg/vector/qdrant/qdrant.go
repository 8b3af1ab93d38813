// Package qdrant provides a Qdrant vector database Store implementation.
package qdrant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/vector"
)

const (
	// DefaultCollectionName is the default collection for document chunks.
	DefaultCollectionName = "docs"

	// defaultGRPCPort is Qdrant's gRPC port. The REST port (6333) that
	// appears in documented URLs maps to its gRPC companion on 6334.
	defaultGRPCPort = 6334
	restPort        = 6333
)

// Store implements vector.Store using Qdrant's gRPC API.
type Store struct {
	client     *qdrant.Client
	collection string
	dimensions uint
	logger     *zap.Logger
}

// Config holds configuration for the Qdrant store.
type Config struct {
	// URL is the Qdrant server URL (e.g., "http://localhost:6333").
	URL string

	// Collection is the collection name. Defaults to DefaultCollectionName
	// if empty.
	Collection string

	// Dimensions is the embedding vector dimension for the collection.
	Dimensions uint
}

// NewStore creates a new Qdrant-backed vector store. The collection is not
// created here; call EnsureCollection before the first upsert.
func NewStore(c Config, logger *zap.Logger) (*Store, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("qdrant URL is required")
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("qdrant embedding dimensions cannot be 0, must be configured")
	}

	collection := c.Collection
	if collection == "" {
		collection = DefaultCollectionName
	}

	host, port, err := grpcEndpoint(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing qdrant URL %q: %w", c.URL, err)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}

	logger.Info("connected to Qdrant",
		zap.String("host", host),
		zap.Int("port", port),
		zap.String("collection", collection),
	)

	return &Store{
		client:     client,
		collection: collection,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

// grpcEndpoint extracts the host and gRPC port from a configured URL.
func grpcEndpoint(raw string) (string, int, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", 0, err
	}

	host := u.Hostname()
	if host == "" {
		return "", 0, fmt.Errorf("no host in URL")
	}

	port := defaultGRPCPort
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("invalid port %q", p)
		}
		if n != restPort {
			port = n
		}
	}

	return host, port, nil
}

// EnsureCollection creates the collection if absent. An existing collection
// with a different vector dimension fails with ErrDimensionMismatch.
func (s *Store) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("%w: checking collection: %v", vector.ErrStore, err)
	}

	if exists {
		info, err := s.client.GetCollectionInfo(ctx, s.collection)
		if err != nil {
			return fmt.Errorf("%w: reading collection info: %v", vector.ErrStore, err)
		}

		size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != uint64(s.dimensions) {
			return fmt.Errorf("%w: collection %q has dimension %d, configured %d",
				vector.ErrDimensionMismatch, s.collection, size, s.dimensions)
		}
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: creating collection %q: %v", vector.ErrStore, s.collection, err)
	}

	s.logger.Info("created collection",
		zap.String("collection", s.collection),
		zap.Uint("dimensions", s.dimensions),
	)

	return nil
}

// Upsert stores points. Dimensions are validated up front so a mismatched
// batch writes nothing.
func (s *Store) Upsert(ctx context.Context, points []vector.Point) error {
	if len(points) == 0 {
		return nil
	}

	for _, p := range points {
		if uint(len(p.Vector)) != s.dimensions {
			return fmt.Errorf("%w: point %s has dimension %d, collection expects %d",
				vector.ErrDimensionMismatch, p.ID, len(p.Vector), s.dimensions)
		}
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}

		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(id),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(payloadMap(p.Payload)),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("%w: upserting %d points: %v", vector.ErrStore, len(points), err)
	}

	s.logger.Debug("upserted points",
		zap.Int("count", len(points)),
		zap.String("collection", s.collection),
	)

	return nil
}

// Search returns up to topK results ordered by descending similarity score.
func (s *Store) Search(ctx context.Context, queryVector []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	scored, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: querying: %v", vector.ErrStore, err)
	}

	results := make([]vector.QueryResult, 0, len(scored))
	for _, point := range scored {
		results = append(results, vector.QueryResult{
			Payload: chunkFromPayload(point.GetPayload()),
			Score:   point.GetScore(),
		})
	}

	s.logger.Debug("queried qdrant",
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Reset deletes and recreates the empty collection.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("%w: deleting collection %q: %v", vector.ErrStore, s.collection, err)
	}

	return s.EnsureCollection(ctx)
}

// Count returns the number of stored points.
func (s *Store) Count(ctx context.Context) (uint64, error) {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("%w: checking collection: %v", vector.ErrStore, err)
	}
	if !exists {
		return 0, nil
	}

	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: counting points: %v", vector.ErrStore, err)
	}

	return count, nil
}

// Ping checks that Qdrant is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}
	return nil
}

// Close releases the underlying gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements vector.Store
var _ vector.Store = (*Store)(nil)
