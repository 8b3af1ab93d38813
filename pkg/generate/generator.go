// Package generate defines the text generation client used to answer
// questions grounded in retrieved document chunks.
package generate

import (
	"context"
	"errors"
)

var (
	// ErrGeneration is returned when the generation service fails.
	ErrGeneration = errors.New("generation service failed")

	// ErrPartialAnswer is returned by a stream whose service disconnected
	// before the end-of-stream marker. The tokens received so far remain
	// available via Stream.Text.
	ErrPartialAnswer = errors.New("generation ended before completion")
)

// Generator produces streamed answers for assembled prompts.
type Generator interface {
	// Generate sends the prompt to the generation service and returns a
	// stream of answer tokens. The stream is finite and not restartable.
	Generate(ctx context.Context, prompt string) (*Stream, error)

	// Ping checks that the generation service is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the generator.
	Close() error
}
