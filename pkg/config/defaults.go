package config

const (
	defaultOllamaURL  = "http://localhost:11434"
	defaultEmbedModel = "mxbai-embed-large"
	defaultGenModel   = "llama3.2"

	defaultQdrantURL  = "http://localhost:6333"
	defaultCollection = "docs"

	defaultVectorProvider = "qdrant"

	defaultEmbeddingDimensions = 1024

	defaultChunkSize    = 500
	defaultChunkOverlap = 50

	defaultTopK = 3

	defaultAPIListen = ":8080"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Ollama: OllamaConfig{
			URL:        defaultOllamaURL,
			EmbedModel: defaultEmbedModel,
			GenModel:   defaultGenModel,
		},
		Qdrant: QdrantConfig{
			URL:        defaultQdrantURL,
			Collection: defaultCollection,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
		},
		Embedding: EmbeddingConfig{
			Dimensions: defaultEmbeddingDimensions,
		},
		Chunking: ChunkingConfig{
			Size:    defaultChunkSize,
			Overlap: defaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{
			TopK: defaultTopK,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
	}
}
