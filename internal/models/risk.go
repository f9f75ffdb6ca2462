// internal/models/risk.go
package models

// Risk categories, derived solely from the final score.
const (
	CategoryLowRisk    = "low_risk"
	CategoryMediumRisk = "medium_risk"
	CategoryHighRisk   = "high_risk"
)

// Factor types and weights.
const (
	FactorPositive = "positive"
	FactorNegative = "negative"
	FactorNeutral  = "neutral"

	WeightLow    = "low"
	WeightMedium = "medium"
	WeightHigh   = "high"
)

type RiskScore struct {
	Score          int                 `json:"score"`
	Category       string              `json:"category"`
	CategoryLabel  string              `json:"categoryLabel"`
	Breakdown      RiskBreakdown       `json:"breakdown"`
	Factors        []RiskFactor        `json:"factors"`
	Recommendation *LoanRecommendation `json:"recommendation,omitempty"`
}

// RiskBreakdown carries the four component scores rounded for display.
// The weighted combination uses the pre-rounding values, so these may
// not sum back to Score exactly.
type RiskBreakdown struct {
	IncomeScore    int `json:"incomeScore"`
	StabilityScore int `json:"stabilityScore"`
	KycConfidence  int `json:"kycConfidence"`
	FraudPenalty   int `json:"fraudPenalty"`
}

type RiskFactor struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Weight string `json:"weight"`
}

type LoanRecommendation struct {
	MaxLoanAmount int     `json:"maxLoanAmount"`
	InterestRate  float64 `json:"interestRate"`
	Tenure        int     `json:"tenure"`
	EMI           int     `json:"emi"`
}
