// internal/providers/mock_kyc.go
package providers

import (
	"context"
	"math/rand"
	"sync"

	"loan-origination-workers/internal/models"
)

// MockKycProvider simulates identity verification. Pass rates match the
// observed behavior of the mocked vendor: identity 90%, liveness 85%,
// face match scored in [0.7, 1.0) with a 0.75 pass threshold.
type MockKycProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockKycProvider(seed int64) *MockKycProvider {
	return &MockKycProvider{rng: rand.New(rand.NewSource(seed))}
}

func (m *MockKycProvider) Verify(_ context.Context, _ *models.ExtractedData) (*models.KycResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	faceMatchScore := 0.7 + m.rng.Float64()*0.3
	livenessPass := m.rng.Float64() > 0.15
	idVerified := m.rng.Float64() > 0.1

	kycStatus := models.KycStatusNeedsReview
	if idVerified && faceMatchScore > 0.75 {
		kycStatus = models.KycStatusVerified
	}

	livenessScore := 0.4 + m.rng.Float64()*0.3
	if livenessPass {
		livenessScore = 0.9 + m.rng.Float64()*0.1
	}

	return &models.KycResult{
		Success:   true,
		KycStatus: kycStatus,
		Checks: &models.KycChecks{
			IdentityVerification: models.IdentityCheck{
				Passed:     idVerified,
				Confidence: 0.8 + m.rng.Float64()*0.2,
				Method:     "document_analysis",
			},
			FaceMatch: models.FaceMatchCheck{
				Passed:     faceMatchScore > 0.75,
				Score:      faceMatchScore,
				Confidence: faceMatchScore,
			},
			Liveness: models.LivenessCheck{
				Passed: livenessPass,
				Score:  livenessScore,
				Method: "motion_detection",
			},
		},
		VerifiedData: &models.VerifiedData{
			NameMatch:       m.rng.Float64() > 0.1,
			DobMatch:        m.rng.Float64() > 0.15,
			AddressVerified: m.rng.Float64() > 0.2,
		},
	}, nil
}
