// internal/providers/mock_fraud.go
package providers

import (
	"context"
	"math/rand"
	"sync"

	"loan-origination-workers/internal/models"
)

// MockFraudDetector simulates anomaly detection. Random flags fire with
// low probability; deterministic flags derive from the KYC result, so a
// weak face match or failed liveness check always surfaces here.
type MockFraudDetector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockFraudDetector(seed int64) *MockFraudDetector {
	return &MockFraudDetector{rng: rand.New(rand.NewSource(seed))}
}

func (m *MockFraudDetector) Detect(_ context.Context, _ *models.ExtractedData, kyc *models.KycResult) (*models.FraudResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fraudProbability := m.rng.Float64()
	flags := []string{}

	if fraudProbability < 0.05 {
		flags = append(flags, "metadata_anomaly")
	}
	if fraudProbability < 0.03 {
		flags = append(flags, "document_template_mismatch")
	}
	if fraudProbability < 0.02 {
		flags = append(flags, "suspicious_editing_patterns")
	}
	if kyc != nil && kyc.Checks != nil {
		if kyc.Checks.FaceMatch.Score < 0.6 {
			flags = append(flags, "low_face_match_score")
		}
		if !kyc.Checks.Liveness.Passed {
			flags = append(flags, "liveness_check_failed")
		}
	}

	riskLevel := models.RiskLevelLow
	if len(flags) > 2 {
		riskLevel = models.RiskLevelHigh
	} else if len(flags) > 0 {
		riskLevel = models.RiskLevelMedium
	}

	documentAuthenticity := 0.95
	if len(flags) > 0 {
		documentAuthenticity = 0.6 - float64(len(flags))*0.1
	}

	return &models.FraudResult{
		FraudDetected: len(flags) > 2,
		RiskLevel:     riskLevel,
		Flags:         flags,
		Confidence:    0.85 + m.rng.Float64()*0.15,
		Analysis: &models.FraudAnalysis{
			DocumentAuthenticity: documentAuthenticity,
			BehaviorScore:        0.8 + m.rng.Float64()*0.2,
			DeviceTrust:          0.9 + m.rng.Float64()*0.1,
		},
	}, nil
}
