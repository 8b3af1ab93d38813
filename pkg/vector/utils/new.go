package vectorutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/config"
	"github.com/NimanthaSupun/localrag/pkg/vector"
	"github.com/NimanthaSupun/localrag/pkg/vector/qdrant"
	"github.com/NimanthaSupun/localrag/pkg/vector/sqlitevec"
)

// NewStore builds the configured vector store backend.
func NewStore(cfg *config.Config, logger *zap.Logger) (vector.Store, error) {
	switch cfg.VectorStore.Provider {
	case "qdrant":
		return qdrant.NewStore(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			Collection: cfg.Qdrant.Collection,
			Dimensions: cfg.Embedding.Dimensions,
		}, logger)
	case "sqlite":
		return sqlitevec.NewStore(sqlitevec.Config{
			DBPath:     cfg.VectorStore.SQLitePath,
			Dimensions: cfg.Embedding.Dimensions,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", cfg.VectorStore.Provider)
	}
}
