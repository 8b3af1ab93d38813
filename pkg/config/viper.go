package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// envBindings maps dotted config keys to the environment variable names the
// pipeline has always used. These are bound explicitly rather than derived
// from a prefix so the documented names keep working.
var envBindings = map[string]string{
	"ollama.url":               "OLLAMA_URL",
	"ollama.embed_model":       "EMBED_MODEL",
	"ollama.gen_model":         "GEN_MODEL",
	"qdrant.url":               "QDRANT_URL",
	"qdrant.collection":        "QDRANT_COLLECTION",
	"vector_store.provider":    "VECTOR_STORE_PROVIDER",
	"vector_store.sqlite_path": "VECTOR_STORE_SQLITE_PATH",
	"embedding.dimensions":     "EMBED_DIM",
	"chunking.size":            "CHUNK_SIZE",
	"chunking.overlap":         "CHUNK_OVERLAP",
	"retrieval.top_k":          "TOP_K",
	"api.listen":               "API_LISTEN",
}

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads config.toml from the
// resolved config directory (if present), and binds environment variables.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command)
//  2. Environment variables (OLLAMA_URL, QDRANT_URL, CHUNK_SIZE, ...)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	target, err := resolveConfigDir(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	return v, nil
}

// FromViper materializes a Config from the viper precedence chain and
// validates it.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Ollama: OllamaConfig{
			URL:        v.GetString("ollama.url"),
			EmbedModel: v.GetString("ollama.embed_model"),
			GenModel:   v.GetString("ollama.gen_model"),
		},
		Qdrant: QdrantConfig{
			URL:        v.GetString("qdrant.url"),
			Collection: v.GetString("qdrant.collection"),
		},
		VectorStore: VectorStoreConfig{
			Provider:   v.GetString("vector_store.provider"),
			SQLitePath: v.GetString("vector_store.sqlite_path"),
		},
		Embedding: EmbeddingConfig{
			Dimensions: v.GetUint("embedding.dimensions"),
		},
		Chunking: ChunkingConfig{
			Size:    v.GetInt("chunking.size"),
			Overlap: v.GetInt("chunking.overlap"),
		},
		Retrieval: RetrievalConfig{
			TopK: v.GetInt("retrieval.top_k"),
		},
		API: APIConfig{
			Listen: v.GetString("api.listen"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("ollama.url", d.Ollama.URL)
	v.SetDefault("ollama.embed_model", d.Ollama.EmbedModel)
	v.SetDefault("ollama.gen_model", d.Ollama.GenModel)

	v.SetDefault("qdrant.url", d.Qdrant.URL)
	v.SetDefault("qdrant.collection", d.Qdrant.Collection)

	v.SetDefault("vector_store.provider", d.VectorStore.Provider)
	v.SetDefault("vector_store.sqlite_path", d.VectorStore.SQLitePath)

	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)

	v.SetDefault("chunking.size", d.Chunking.Size)
	v.SetDefault("chunking.overlap", d.Chunking.Overlap)

	v.SetDefault("retrieval.top_k", d.Retrieval.TopK)

	v.SetDefault("api.listen", d.API.Listen)
}
