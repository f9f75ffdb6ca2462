// internal/workers/decision/calculate-risk-score/models.go
package calculateriskscore

import "loan-origination-workers/internal/models"

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	ApplicationID  string                     `json:"applicationId"`
	RiskScore      int                        `json:"riskScore"`
	RiskCategory   string                     `json:"riskCategory"`
	CategoryLabel  string                     `json:"categoryLabel"`
	Breakdown      models.RiskBreakdown       `json:"breakdown"`
	Factors        []models.RiskFactor        `json:"factors"`
	Recommendation *models.LoanRecommendation `json:"recommendation"`
}
