// Package generateutils is the generation utility package
package generateutils

import (
	"fmt"

	"github.com/NimanthaSupun/localrag/pkg/generate"
	"github.com/NimanthaSupun/localrag/pkg/generate/ollama"
)

type NewGeneratorOpts struct {
	// ProviderType selects the backend. Empty defaults to "ollama".
	ProviderType string
	TargetURL    string
	Model        string
}

// NewGenerator builds the generator for the configured provider.
func NewGenerator(o *NewGeneratorOpts) (generate.Generator, error) {
	provider := o.ProviderType
	if provider == "" {
		provider = "ollama"
	}

	switch provider {
	case "ollama":
		return ollama.NewGenerator(ollama.GeneratorConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported generation provider: %q", provider)
	}
}
