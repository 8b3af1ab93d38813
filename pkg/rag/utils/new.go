// Package ragutils is the rag service utility package
package ragutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/NimanthaSupun/localrag/pkg/config"
	embeddingutils "github.com/NimanthaSupun/localrag/pkg/embeddings/utils"
	generateutils "github.com/NimanthaSupun/localrag/pkg/generate/utils"
	"github.com/NimanthaSupun/localrag/pkg/rag"
	vectorutils "github.com/NimanthaSupun/localrag/pkg/vector/utils"
)

// NewService wires an embedder, vector store, and generator from the
// configuration and returns a ready rag service. The caller owns the
// service and must Close it.
func NewService(cfg *config.Config, logger *zap.Logger) (*rag.Service, error) {
	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: "ollama",
		TargetURL:    cfg.Ollama.URL,
		Model:        cfg.Ollama.EmbedModel,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	store, err := vectorutils.NewStore(cfg, logger)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	generator, err := generateutils.NewGenerator(&generateutils.NewGeneratorOpts{
		ProviderType: "ollama",
		TargetURL:    cfg.Ollama.URL,
		Model:        cfg.Ollama.GenModel,
	})
	if err != nil {
		embedder.Close()
		store.Close()
		return nil, fmt.Errorf("creating generator: %w", err)
	}

	return rag.New(cfg, embedder, store, generator, logger), nil
}
