package services

import (
	"context"
	"sync"
)

// MockSearchService is a mock implementation of SearchService for testing
type MockSearchService struct {
	Centers []ServiceCenter
	Err     error

	mu      sync.Mutex
	queries []string // "brand|location" pairs, for assertions
}

// NewMockSearchService creates a mock with one canned service center
func NewMockSearchService() *MockSearchService {
	return &MockSearchService{
		Centers: []ServiceCenter{
			{
				Name:    "Authorized Service Center",
				Address: "42 Service Rd, Chennai",
				Phone:   "Phone number",
				Link:    "https://example.com/center",
			},
		},
	}
}

// SetAsMockForTesting sets this mock as the global search service instance
func (m *MockSearchService) SetAsMockForTesting() {
	SetSearchService(m)
}

// FindServiceCenters records the query and returns the configured results
func (m *MockSearchService) FindServiceCenters(ctx context.Context, brand, location string) ([]ServiceCenter, error) {
	m.mu.Lock()
	m.queries = append(m.queries, brand+"|"+location)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Centers, nil
}

// Queries returns the recorded brand|location queries
func (m *MockSearchService) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}
