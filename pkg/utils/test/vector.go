package testutils

import (
	"context"
	"fmt"

	"github.com/NimanthaSupun/localrag/pkg/vector"
)

// MockStore is an in-memory test vector store. It keeps points in insertion
// order and serves Search from a preset result list (or, when none is set,
// from the stored points with descending synthetic scores).
type MockStore struct {
	Points  []vector.Point
	Results []vector.QueryResult

	Dimensions uint

	// UpsertErr, ResetErr, and PingErr force failures when set.
	UpsertErr error
	ResetErr  error
	PingErr   error

	EnsureCalls int
	ResetCalls  int
}

func NewMockStore(dimensions uint) *MockStore {
	return &MockStore{Dimensions: dimensions}
}

func (m *MockStore) EnsureCollection(_ context.Context) error {
	m.EnsureCalls++
	return nil
}

func (m *MockStore) Upsert(_ context.Context, points []vector.Point) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}

	for _, p := range points {
		if m.Dimensions != 0 && uint(len(p.Vector)) != m.Dimensions {
			return fmt.Errorf("%w: point %s has dimension %d, collection expects %d",
				vector.ErrDimensionMismatch, p.ID, len(p.Vector), m.Dimensions)
		}
	}

	m.Points = append(m.Points, points...)
	return nil
}

func (m *MockStore) Search(_ context.Context, _ []float32, topK int) ([]vector.QueryResult, error) {
	results := m.Results
	if results == nil {
		for i, p := range m.Points {
			results = append(results, vector.QueryResult{
				Payload: p.Payload,
				Score:   1.0 - float32(i)*0.1,
			})
		}
	}

	if topK < len(results) {
		return results[:topK], nil
	}
	return results, nil
}

func (m *MockStore) Reset(_ context.Context) error {
	m.ResetCalls++
	if m.ResetErr != nil {
		return m.ResetErr
	}
	m.Points = nil
	m.Results = nil
	return nil
}

func (m *MockStore) Count(_ context.Context) (uint64, error) {
	return uint64(len(m.Points)), nil
}

func (m *MockStore) Ping(_ context.Context) error {
	return m.PingErr
}

func (m *MockStore) Close() error {
	return nil
}

// Ensure MockStore implements vector.Store
var _ vector.Store = (*MockStore)(nil)
