// Package ollama implements pkg/generate's Generator client for Ollama's
// generation API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NimanthaSupun/localrag/pkg/generate"
)

const (
	// DefaultGenerationModel is the default model used for generation.
	DefaultGenerationModel = "llama3.2"

	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"
)

// Generator wraps Ollama's streaming generation API.
type Generator struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// GeneratorConfig holds configuration for the Ollama generator.
type GeneratorConfig struct {
	// BaseURL is the Ollama API URL (e.g., "http://localhost:11434").
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the generation model to use (e.g., "llama3.2").
	// Defaults to DefaultGenerationModel if empty.
	Model string
}

// NewGenerator creates a new generator using Ollama's generation API.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGenerationModel
	}

	return &Generator{
		baseURL: baseURL,
		model:   model,
		// No client timeout: generation is open-ended and the stream is
		// bounded by the request context instead.
		httpClient: &http.Client{},
	}, nil
}

// Generate sends the prompt to Ollama and returns a token stream over the
// newline-delimited JSON response body.
func (g *Generator) Generate(ctx context.Context, prompt string) (*generate.Stream, error) {
	reqBody := generateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", generate.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", generate.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", generate.ErrGeneration, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: ollama returned status %d: %s", generate.ErrGeneration, resp.StatusCode, string(body))
	}

	decoder := &streamDecoder{lines: generate.NewLineDecoder(resp.Body)}
	return generate.NewStream(decoder, resp.Body), nil
}

// Ping checks that the Ollama API is reachable.
func (g *Generator) Ping(ctx context.Context) error {
	pingClient := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", generate.ErrGeneration, err)
	}

	resp, err := pingClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending request: %v", generate.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ollama returned status %d", generate.ErrGeneration, resp.StatusCode)
	}

	return nil
}

// Close releases resources held by the generator.
func (g *Generator) Close() error {
	return nil
}

// streamDecoder parses Ollama's newline-delimited JSON generation events.
type streamDecoder struct {
	lines *generate.LineDecoder
}

func (d *streamDecoder) Decode() (generate.Chunk, error) {
	for {
		line, err := d.lines.Next()
		if err != nil {
			return generate.Chunk{}, err
		}

		var event generateResponse
		if err := json.Unmarshal(line, &event); err != nil {
			// Malformed lines are skipped, matching the service's
			// documented keep-alive behavior.
			continue
		}

		return generate.Chunk{Token: event.Response, Done: event.Done}, nil
	}
}

// Ensure Generator implements generate.Generator
var _ generate.Generator = (*Generator)(nil)
