// internal/providers/mock_tamper.go
package providers

import (
	"context"
	"math/rand"
	"sync"

	"loan-origination-workers/internal/models"
)

// MockTamperDetector flags roughly 5% of uploads as manipulated.
type MockTamperDetector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockTamperDetector(seed int64) *MockTamperDetector {
	return &MockTamperDetector{rng: rand.New(rand.NewSource(seed))}
}

func (m *MockTamperDetector) Inspect(_ context.Context, _ []string) (*models.TamperResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tampered := m.rng.Float64() < 0.05

	confidence := 0.9 + m.rng.Float64()*0.1
	indicators := []string{}
	if tampered {
		confidence = 0.7 + m.rng.Float64()*0.2
		indicators = []string{
			"noise_pattern_mismatch",
			"compression_artifacts",
			"metadata_inconsistency",
		}
	}

	return &models.TamperResult{
		Tampered:   tampered,
		Confidence: confidence,
		Indicators: indicators,
	}, nil
}
