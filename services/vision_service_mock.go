package services

import (
	"context"
	"sync"
)

// MockVisionService is a mock implementation of VisionService for testing
type MockVisionService struct {
	Result *DefectAnalysis
	Err    error

	mu       sync.Mutex
	analyzed [][]byte // images passed to AnalyzeDefects, for assertions
}

// NewMockVisionService creates a mock that reports a detected defect
func NewMockVisionService() *MockVisionService {
	return &MockVisionService{
		Result: &DefectAnalysis{
			DefectDetected:     true,
			DefectType:         "Cracked screen",
			Severity:           "High",
			AffectedComponents: "Display panel, LCD assembly",
		},
	}
}

// SetAsMockForTesting sets this mock as the global vision service instance
func (m *MockVisionService) SetAsMockForTesting() {
	SetVisionService(m)
}

// AnalyzeDefects records the image and returns the configured result
func (m *MockVisionService) AnalyzeDefects(ctx context.Context, imageBytes []byte, contentType string) (*DefectAnalysis, error) {
	m.mu.Lock()
	m.analyzed = append(m.analyzed, imageBytes)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// AnalyzeCount returns how many images have been analyzed
func (m *MockVisionService) AnalyzeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.analyzed)
}
