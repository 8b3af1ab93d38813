// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"github.com/NimanthaSupun/localrag/pkg/embeddings"
	"github.com/NimanthaSupun/localrag/pkg/embeddings/ollama"
)

type NewEmbedderOpts struct {
	// ProviderType selects the backend. Empty defaults to "ollama".
	ProviderType string
	TargetURL    string
	Model        string
}

// NewEmbedder builds the embedder for the configured provider.
func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	provider := o.ProviderType
	if provider == "" {
		provider = "ollama"
	}

	switch provider {
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q", provider)
	}
}
