package rag

import (
	"context"

	"github.com/NimanthaSupun/localrag/pkg/config"
)

// Status reports service connectivity and collection size.
type Status struct {
	// OllamaOK is true when the inference service answered the health check.
	OllamaOK bool `json:"ollama_ok"`

	// StoreOK is true when the vector store answered the health check.
	StoreOK bool `json:"store_ok"`

	// Points is the number of stored chunks. Zero when the store is down.
	Points uint64 `json:"points"`

	// Config is the active configuration summary.
	Config []config.Setting `json:"config"`
}

// Status checks connectivity to both external services and reports the
// stored point count. Connectivity failures are reported in the result, not
// returned as errors; the check itself always succeeds.
func (s *Service) Status(ctx context.Context) Status {
	status := Status{Config: s.cfg.Summary()}

	if err := s.embedder.Ping(ctx); err == nil {
		status.OllamaOK = true
	}

	if err := s.store.Ping(ctx); err == nil {
		status.StoreOK = true

		if count, err := s.store.Count(ctx); err == nil {
			status.Points = count
		}
	}

	return status
}
