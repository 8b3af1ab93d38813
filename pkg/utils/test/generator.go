package testutils

import (
	"context"
	"io"

	"github.com/NimanthaSupun/localrag/pkg/generate"
)

// MockGenerator is a test generator whose streams replay canned tokens.
type MockGenerator struct {
	// Tokens are yielded in order by every stream.
	Tokens []string

	// CutAfter, when positive, drops the connection after that many tokens
	// instead of sending the end-of-stream marker.
	CutAfter int

	// GenerateErr forces Generate itself to fail when set.
	GenerateErr error

	// Prompts records every prompt passed to Generate.
	Prompts []string
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (*generate.Stream, error) {
	if m.GenerateErr != nil {
		return nil, m.GenerateErr
	}

	m.Prompts = append(m.Prompts, prompt)

	return generate.NewStream(&cannedDecoder{
		tokens:   m.Tokens,
		cutAfter: m.CutAfter,
	}, nil), nil
}

func (m *MockGenerator) Ping(_ context.Context) error {
	return nil
}

func (m *MockGenerator) Close() error {
	return nil
}

// cannedDecoder replays tokens, then either terminates cleanly or simulates
// a dropped connection.
type cannedDecoder struct {
	tokens   []string
	cutAfter int
	pos      int
}

func (d *cannedDecoder) Decode() (generate.Chunk, error) {
	if d.cutAfter > 0 && d.pos >= d.cutAfter {
		return generate.Chunk{}, io.EOF
	}

	if d.pos >= len(d.tokens) {
		return generate.Chunk{Done: true}, nil
	}

	token := d.tokens[d.pos]
	d.pos++
	return generate.Chunk{Token: token}, nil
}

// Ensure MockGenerator implements generate.Generator
var _ generate.Generator = (*MockGenerator)(nil)
