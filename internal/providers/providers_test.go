// internal/providers/providers_test.go
package providers

import (
	"context"
	"testing"

	"loan-origination-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockExtractor_ProducesValidData(t *testing.T) {
	extractor := NewMockExtractor(42)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		result, err := extractor.Extract(ctx, []string{"id_document", "salary_slip", "bank_statement"})

		require.NoError(t, err)
		require.NotNil(t, result.ExtractedData)
		data := result.ExtractedData

		assert.True(t, result.Success)
		assert.Equal(t, 3, result.DocumentsProcessed)
		assert.GreaterOrEqual(t, result.Confidence, 0.85)
		assert.Less(t, result.Confidence, 0.98)

		assert.Contains(t, mockNames, data.Name)
		assert.Contains(t, mockEmployers, data.Employer)
		assert.Contains(t, mockBanks, data.BankName)
		assert.GreaterOrEqual(t, data.MonthlySalary, 40000)
		assert.Less(t, data.MonthlySalary, 100000)
		assert.GreaterOrEqual(t, data.AverageBalance, 50000)
		assert.Less(t, data.AverageBalance, 200000)
		assert.GreaterOrEqual(t, data.RecentTransactions, 15)
		assert.Less(t, data.RecentTransactions, 50)
		assert.NotEmpty(t, data.IDNumber)
		assert.NotEmpty(t, data.Address)
	}
}

func TestMockExtractor_DeterministicWithSeed(t *testing.T) {
	first := NewMockExtractor(7)
	second := NewMockExtractor(7)
	ctx := context.Background()

	a, err := first.Extract(ctx, []string{"id_document"})
	require.NoError(t, err)
	b, err := second.Extract(ctx, []string{"id_document"})
	require.NoError(t, err)

	assert.Equal(t, a.ExtractedData, b.ExtractedData)
}

func TestMockKycProvider_ProducesValidChecks(t *testing.T) {
	provider := NewMockKycProvider(42)
	ctx := context.Background()
	data := &models.ExtractedData{Name: "Rajesh Kumar"}

	for i := 0; i < 100; i++ {
		result, err := provider.Verify(ctx, data)

		require.NoError(t, err)
		require.NotNil(t, result.Checks)
		checks := result.Checks

		assert.Contains(t, []string{models.KycStatusVerified, models.KycStatusNeedsReview}, result.KycStatus)

		assert.GreaterOrEqual(t, checks.IdentityVerification.Confidence, 0.8)
		assert.LessOrEqual(t, checks.IdentityVerification.Confidence, 1.0)
		assert.Equal(t, "document_analysis", checks.IdentityVerification.Method)

		assert.GreaterOrEqual(t, checks.FaceMatch.Score, 0.7)
		assert.LessOrEqual(t, checks.FaceMatch.Score, 1.0)
		assert.Equal(t, checks.FaceMatch.Score > 0.75, checks.FaceMatch.Passed)

		assert.Equal(t, "motion_detection", checks.Liveness.Method)
		if checks.Liveness.Passed {
			assert.GreaterOrEqual(t, checks.Liveness.Score, 0.9)
		} else {
			assert.Less(t, checks.Liveness.Score, 0.7)
		}

		// Verified status requires identity plus a strong face match
		if result.KycStatus == models.KycStatusVerified {
			assert.True(t, checks.IdentityVerification.Passed)
			assert.Greater(t, checks.FaceMatch.Score, 0.75)
		}
	}
}

func TestMockFraudDetector_DerivesFlagsFromKyc(t *testing.T) {
	detector := NewMockFraudDetector(42)
	ctx := context.Background()

	t.Run("weak face match and failed liveness always flagged", func(t *testing.T) {
		kyc := &models.KycResult{Checks: &models.KycChecks{
			FaceMatch: models.FaceMatchCheck{Passed: false, Score: 0.5},
			Liveness:  models.LivenessCheck{Passed: false, Score: 0.4},
		}}

		result, err := detector.Detect(ctx, nil, kyc)

		require.NoError(t, err)
		assert.Contains(t, result.Flags, "low_face_match_score")
		assert.Contains(t, result.Flags, "liveness_check_failed")
		assert.NotEqual(t, models.RiskLevelLow, result.RiskLevel)
	})

	t.Run("risk level tracks flag count", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			kyc := &models.KycResult{Checks: &models.KycChecks{
				FaceMatch: models.FaceMatchCheck{Passed: true, Score: 0.9},
				Liveness:  models.LivenessCheck{Passed: true, Score: 0.95},
			}}

			result, err := detector.Detect(ctx, nil, kyc)
			require.NoError(t, err)

			switch {
			case len(result.Flags) == 0:
				assert.Equal(t, models.RiskLevelLow, result.RiskLevel)
			case len(result.Flags) <= 2:
				assert.Equal(t, models.RiskLevelMedium, result.RiskLevel)
			default:
				assert.Equal(t, models.RiskLevelHigh, result.RiskLevel)
			}
			assert.Equal(t, len(result.Flags) > 2, result.FraudDetected)
		}
	})
}

func TestMockTamperDetector_IndicatorsOnlyWhenTampered(t *testing.T) {
	detector := NewMockTamperDetector(42)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		result, err := detector.Inspect(ctx, []string{"id_document"})

		require.NoError(t, err)
		if result.Tampered {
			assert.NotEmpty(t, result.Indicators)
			assert.GreaterOrEqual(t, result.Confidence, 0.7)
		} else {
			assert.Empty(t, result.Indicators)
			assert.GreaterOrEqual(t, result.Confidence, 0.9)
		}
	}
}
