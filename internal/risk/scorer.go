// internal/risk/scorer.go
package risk

import (
	"fmt"
	"math"

	"loan-origination-workers/internal/common/errors"
	"loan-origination-workers/internal/models"
)

// Employers that earn a stability bonus.
var topEmployers = map[string]bool{
	"TCS":       true,
	"Infosys":   true,
	"Wipro":     true,
	"Accenture": true,
}

// Calculate produces a risk score from the extracted document data, the
// KYC result, and the fraud result. It is a pure function over its
// inputs; the only failure mode is invalid input, which is rejected
// up front rather than silently coerced to zero.
func Calculate(data *models.ExtractedData, kyc *models.KycResult, fraud *models.FraudResult) (*models.RiskScore, error) {
	if err := validateInputs(data, kyc, fraud); err != nil {
		return nil, err
	}

	incomeScore := calculateIncomeScore(data.MonthlySalary)
	stabilityScore := calculateStabilityScore(data)
	kycConfidence := calculateKycConfidence(kyc.Checks)
	fraudPenalty := calculateFraudPenalty(fraud)

	// The weighted sum uses the unrounded component values; the
	// breakdown below carries independently rounded copies for display,
	// so the breakdown may not sum back to the final score.
	raw := incomeScore*incomeWeight +
		stabilityScore*stabilityWeight +
		kycConfidence*kycWeight -
		fraudPenalty*fraudWeight

	score := int(math.Round(math.Max(0, math.Min(100, raw))))

	category, categoryLabel := Categorize(score)

	return &models.RiskScore{
		Score:         score,
		Category:      category,
		CategoryLabel: categoryLabel,
		Breakdown: models.RiskBreakdown{
			IncomeScore:    int(math.Round(incomeScore)),
			StabilityScore: int(math.Round(stabilityScore)),
			KycConfidence:  int(math.Round(kycConfidence)),
			FraudPenalty:   int(math.Round(fraudPenalty)),
		},
		Factors: generateRiskFactors(data, kyc.Checks, fraud),
	}, nil
}

// Categorize maps a final score onto its risk band. The bands are
// exhaustive and non-overlapping over the whole integer range.
func Categorize(score int) (category, label string) {
	switch {
	case score >= LowRiskFloor:
		return models.CategoryLowRisk, "Low Risk"
	case score >= MediumRiskFloor:
		return models.CategoryMediumRisk, "Medium Risk"
	default:
		return models.CategoryHighRisk, "High Risk"
	}
}

func validateInputs(data *models.ExtractedData, kyc *models.KycResult, fraud *models.FraudResult) error {
	if data == nil {
		return errors.NewRiskInputInvalidError("extractedData", "extracted document data is required")
	}
	if kyc == nil || kyc.Checks == nil {
		return errors.NewRiskInputInvalidError("kycResult", "KYC result with checks is required")
	}
	if fraud == nil {
		return errors.NewRiskInputInvalidError("fraudResult", "fraud result is required")
	}
	if data.MonthlySalary <= 0 {
		return errors.NewRiskInputInvalidError("monthlySalary", fmt.Sprintf("must be positive, got %d", data.MonthlySalary))
	}
	if data.AverageBalance < 0 {
		return errors.NewRiskInputInvalidError("averageBalance", fmt.Sprintf("must be non-negative, got %d", data.AverageBalance))
	}
	if data.RecentTransactions < 0 {
		return errors.NewRiskInputInvalidError("recentTransactions", fmt.Sprintf("must be non-negative, got %d", data.RecentTransactions))
	}

	switch fraud.RiskLevel {
	case models.RiskLevelLow, models.RiskLevelMedium, models.RiskLevelHigh:
	default:
		return errors.NewRiskInputInvalidError("riskLevel", fmt.Sprintf("must be low, medium, or high, got %q", fraud.RiskLevel))
	}

	confidences := map[string]float64{
		"identityVerification.confidence": kyc.Checks.IdentityVerification.Confidence,
		"faceMatch.score":                 kyc.Checks.FaceMatch.Score,
		"liveness.score":                  kyc.Checks.Liveness.Score,
	}
	for field, v := range confidences {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NewRiskInputInvalidError(field, "must be a finite number")
		}
		if v < 0 || v > 1 {
			return errors.NewRiskInputInvalidError(field, fmt.Sprintf("must be in [0,1], got %v", v))
		}
	}
	return nil
}

// calculateIncomeScore is a step function over monthly salary. Five
// discrete tiers, no interpolation.
func calculateIncomeScore(monthlySalary int) float64 {
	switch {
	case monthlySalary >= 80000:
		return 95
	case monthlySalary >= 60000:
		return 85
	case monthlySalary >= 45000:
		return 70
	case monthlySalary >= 30000:
		return 55
	default:
		return 35
	}
}

func calculateStabilityScore(data *models.ExtractedData) float64 {
	score := 50.0

	// Bank balance impact
	switch {
	case data.AverageBalance > 100000:
		score += 25
	case data.AverageBalance > 50000:
		score += 15
	case data.AverageBalance > 20000:
		score += 5
	}

	// Transaction activity
	switch {
	case data.RecentTransactions > 30:
		score += 15
	case data.RecentTransactions > 15:
		score += 10
	}

	if topEmployers[data.Employer] {
		score += 10
	}

	return math.Min(100, score)
}

func calculateKycConfidence(checks *models.KycChecks) float64 {
	score := 0.0

	if checks.IdentityVerification.Passed {
		score += 35
	}
	if checks.FaceMatch.Passed {
		score += 35
	}
	if checks.Liveness.Passed {
		score += 30
	}

	avgConfidence := (checks.IdentityVerification.Confidence +
		checks.FaceMatch.Score +
		checks.Liveness.Score) / 3

	return math.Min(100, score*avgConfidence)
}

func calculateFraudPenalty(fraud *models.FraudResult) float64 {
	penalty := 0.0

	if fraud.FraudDetected {
		penalty += 50
	}

	switch fraud.RiskLevel {
	case models.RiskLevelHigh:
		penalty += 30
	case models.RiskLevelMedium:
		penalty += 15
	}

	penalty += float64(len(fraud.Flags)) * 5

	return math.Min(100, penalty)
}

// generateRiskFactors emits the human-readable factor list: satisfied
// positives first, then negatives, then the two neutral entries. The
// list is advisory only and never feeds back into the score.
func generateRiskFactors(data *models.ExtractedData, checks *models.KycChecks, fraud *models.FraudResult) []models.RiskFactor {
	factors := []models.RiskFactor{}

	// Positive factors
	if data.MonthlySalary >= 60000 {
		factors = append(factors, models.RiskFactor{Type: models.FactorPositive, Text: "Strong income profile", Weight: models.WeightHigh})
	}
	if data.AverageBalance > 80000 {
		factors = append(factors, models.RiskFactor{Type: models.FactorPositive, Text: "Healthy bank balance", Weight: models.WeightMedium})
	}
	if checks.FaceMatch.Score > 0.9 {
		factors = append(factors, models.RiskFactor{Type: models.FactorPositive, Text: "Excellent identity verification", Weight: models.WeightHigh})
	}
	if len(fraud.Flags) == 0 {
		factors = append(factors, models.RiskFactor{Type: models.FactorPositive, Text: "No fraud indicators detected", Weight: models.WeightMedium})
	}

	// Negative factors
	if data.MonthlySalary < 40000 {
		factors = append(factors, models.RiskFactor{Type: models.FactorNegative, Text: "Below minimum income threshold", Weight: models.WeightHigh})
	}
	if data.AverageBalance < 30000 {
		factors = append(factors, models.RiskFactor{Type: models.FactorNegative, Text: "Low savings balance", Weight: models.WeightMedium})
	}
	if !checks.Liveness.Passed {
		factors = append(factors, models.RiskFactor{Type: models.FactorNegative, Text: "Liveness check concerns", Weight: models.WeightHigh})
	}
	if len(fraud.Flags) > 0 {
		factors = append(factors, models.RiskFactor{
			Type:   models.FactorNegative,
			Text:   fmt.Sprintf("%d fraud flag(s) detected", len(fraud.Flags)),
			Weight: models.WeightHigh,
		})
	}

	// Neutral factors
	factors = append(factors,
		models.RiskFactor{Type: models.FactorNeutral, Text: fmt.Sprintf("Employer: %s", data.Employer), Weight: models.WeightLow},
		models.RiskFactor{Type: models.FactorNeutral, Text: fmt.Sprintf("Bank: %s", data.BankName), Weight: models.WeightLow},
	)

	return factors
}
