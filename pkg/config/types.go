package config

import (
	"fmt"
	"strconv"
)

// Config represents the full localrag configuration. It is constructed once
// at process start (from defaults, the optional config.toml, environment
// variables, and flags) and passed to every component constructor.
type Config struct {
	Ollama      OllamaConfig      `toml:"ollama"`
	Qdrant      QdrantConfig      `toml:"qdrant"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Chunking    ChunkingConfig    `toml:"chunking"`
	Retrieval   RetrievalConfig   `toml:"retrieval"`
	API         APIConfig         `toml:"api"`
}

// OllamaConfig holds the inference service settings.
type OllamaConfig struct {
	URL        string `toml:"url,omitempty"`
	EmbedModel string `toml:"embed_model,omitempty"`
	GenModel   string `toml:"gen_model,omitempty"`
}

// QdrantConfig holds the Qdrant vector database settings.
type QdrantConfig struct {
	URL        string `toml:"url,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// VectorStoreConfig selects the vector store backend.
type VectorStoreConfig struct {
	// Provider is "qdrant" or "sqlite".
	Provider string `toml:"provider,omitempty"`

	// SQLitePath is the database path used by the sqlite provider.
	// ":memory:" keeps everything in-process.
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// EmbeddingConfig holds embedding vector settings.
type EmbeddingConfig struct {
	Dimensions uint `toml:"dimensions,omitempty"`
}

// ChunkingConfig holds document chunking settings.
type ChunkingConfig struct {
	Size    int `toml:"size,omitempty"`
	Overlap int `toml:"overlap,omitempty"`
}

// RetrievalConfig holds query-time retrieval settings.
type RetrievalConfig struct {
	TopK int `toml:"top_k,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// Validate checks the invariants every component relies on. It is called once
// at startup; a failure here is fatal for the process.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrInvalidConfig, c.Chunking.Overlap)
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap (%d) must be smaller than chunk size (%d)",
			ErrInvalidConfig, c.Chunking.Overlap, c.Chunking.Size)
	}
	if c.Embedding.Dimensions == 0 {
		return fmt.Errorf("%w: embedding dimensions must be positive", ErrInvalidConfig)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidConfig, c.Retrieval.TopK)
	}
	if c.Ollama.URL == "" {
		return fmt.Errorf("%w: ollama URL is required", ErrInvalidConfig)
	}
	switch c.VectorStore.Provider {
	case "qdrant":
		if c.Qdrant.URL == "" {
			return fmt.Errorf("%w: qdrant URL is required", ErrInvalidConfig)
		}
	case "sqlite":
		if c.VectorStore.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite path is required for the sqlite vector store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown vector store provider %q", ErrInvalidConfig, c.VectorStore.Provider)
	}
	return nil
}

// Summary returns the configuration as ordered key/value pairs for display
// in the status command and endpoint.
func (c *Config) Summary() []Setting {
	return []Setting{
		{"ollama.url", c.Ollama.URL},
		{"ollama.embed_model", c.Ollama.EmbedModel},
		{"ollama.gen_model", c.Ollama.GenModel},
		{"qdrant.url", c.Qdrant.URL},
		{"qdrant.collection", c.Qdrant.Collection},
		{"vector_store.provider", c.VectorStore.Provider},
		{"embedding.dimensions", strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)},
		{"chunking.size", strconv.Itoa(c.Chunking.Size)},
		{"chunking.overlap", strconv.Itoa(c.Chunking.Overlap)},
		{"retrieval.top_k", strconv.Itoa(c.Retrieval.TopK)},
	}
}

// Setting is a single named configuration value.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"ollama.url": {
		get: func(c *Config) string { return c.Ollama.URL },
		set: func(c *Config, v string) error { c.Ollama.URL = v; return nil },
	},
	"ollama.embed_model": {
		get: func(c *Config) string { return c.Ollama.EmbedModel },
		set: func(c *Config, v string) error { c.Ollama.EmbedModel = v; return nil },
	},
	"ollama.gen_model": {
		get: func(c *Config) string { return c.Ollama.GenModel },
		set: func(c *Config, v string) error { c.Ollama.GenModel = v; return nil },
	},
	"qdrant.url": {
		get: func(c *Config) string { return c.Qdrant.URL },
		set: func(c *Config, v string) error { c.Qdrant.URL = v; return nil },
	},
	"qdrant.collection": {
		get: func(c *Config) string { return c.Qdrant.Collection },
		set: func(c *Config, v string) error { c.Qdrant.Collection = v; return nil },
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.sqlite_path": {
		get: func(c *Config) string { return c.VectorStore.SQLitePath },
		set: func(c *Config, v string) error { c.VectorStore.SQLitePath = v; return nil },
	},
	"embedding.dimensions": {
		get: func(c *Config) string {
			if c.Embedding.Dimensions == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Embedding.Dimensions), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for embedding.dimensions: %w", err)
			}
			c.Embedding.Dimensions = uint(n)
			return nil
		},
	},
	"chunking.size": {
		get: func(c *Config) string { return strconv.Itoa(c.Chunking.Size) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for chunking.size: %w", err)
			}
			c.Chunking.Size = n
			return nil
		},
	},
	"chunking.overlap": {
		get: func(c *Config) string { return strconv.Itoa(c.Chunking.Overlap) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for chunking.overlap: %w", err)
			}
			c.Chunking.Overlap = n
			return nil
		},
	},
	"retrieval.top_k": {
		get: func(c *Config) string { return strconv.Itoa(c.Retrieval.TopK) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for retrieval.top_k: %w", err)
			}
			c.Retrieval.TopK = n
			return nil
		},
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
}
