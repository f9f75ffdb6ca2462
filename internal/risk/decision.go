// internal/risk/decision.go
package risk

import (
	"time"

	"loan-origination-workers/internal/common/errors"
	"loan-origination-workers/internal/models"
)

// Recommend derives loan terms from a risk score. The band split mirrors
// Categorize exactly via the shared floors.
func Recommend(rs *models.RiskScore) *models.LoanRecommendation {
	switch {
	case rs.Score >= LowRiskFloor:
		return &models.LoanRecommendation{
			MaxLoanAmount: rs.Breakdown.IncomeScore * 1000 * 10,
			InterestRate:  10.5,
			Tenure:        60,
		}
	case rs.Score >= MediumRiskFloor:
		return &models.LoanRecommendation{
			MaxLoanAmount: rs.Breakdown.IncomeScore * 1000 * 5,
			InterestRate:  13.5,
			Tenure:        36,
		}
	default:
		return &models.LoanRecommendation{}
	}
}

// Decide maps a risk score onto the final automated decision. The
// outcome is fully determined by the score via the same three bands
// that drive the risk category.
func Decide(rs *models.RiskScore) (*models.Decision, error) {
	if rs == nil {
		return nil, errors.NewDecisionDataMissingError("")
	}

	recommendation := rs.Recommendation
	if recommendation == nil {
		recommendation = Recommend(rs)
	}

	var decision *models.Decision
	switch {
	case rs.Score >= LowRiskFloor:
		decision = &models.Decision{
			Result:       models.ResultApproved,
			ResultLabel:  "Application Approved",
			Message:      "Congratulations! Your loan application has been approved.",
			Color:        "success",
			Icon:         "check-circle",
			LoanAmount:   recommendation.MaxLoanAmount,
			InterestRate: recommendation.InterestRate,
			Tenure:       recommendation.Tenure,
			NextSteps: []string{
				"E-sign the loan agreement",
				"Complete bank verification",
				"Funds will be disbursed in 24 hours",
			},
		}
	case rs.Score >= MediumRiskFloor:
		decision = &models.Decision{
			Result:      models.ResultNeedDocuments,
			ResultLabel: "Additional Documents Required",
			Message:     "We need more information to process your application.",
			Color:       "warning",
			Icon:        "alert-circle",
			RequiredDocuments: []string{
				"Last 6 months bank statement",
				"Employment verification letter",
				"Additional income proof (if any)",
			},
			NextSteps: []string{
				"Upload requested documents",
				"Application will be reviewed within 24 hours",
			},
		}
	default:
		decision = &models.Decision{
			Result:      models.ResultRejected,
			ResultLabel: "Application Not Approved",
			Message:     "Unfortunately, we cannot approve your application at this time.",
			Color:       "danger",
			Icon:        "x-circle",
			Reasons:     negativeFactorTexts(rs.Factors),
			NextSteps: []string{
				"Improve your credit score",
				"Increase your income stability",
				"Reapply after 3 months",
			},
		}
	}

	decision.DecidedAt = time.Now().UTC().Format(time.RFC3339)
	decision.Automated = true
	return decision, nil
}

// Override replaces the outcome of an existing decision with an admin
// choice. This is a record transformation, not a re-scoring: the
// payload fields of the prior automated decision (loan terms, required
// documents, reasons) are deliberately kept as-is.
func Override(decision *models.Decision, newResult, reason string) (*models.Decision, error) {
	if decision == nil {
		return nil, errors.NewInvalidOverrideError("no existing decision to override")
	}
	switch newResult {
	case models.ResultApproved, models.ResultNeedDocuments, models.ResultRejected:
	default:
		return nil, errors.NewInvalidOverrideError("unknown override result: " + newResult)
	}
	if reason == "" {
		return nil, errors.NewInvalidOverrideError("override reason is required")
	}

	updated := *decision
	updated.Result = newResult
	updated.Automated = false
	updated.Overridden = true
	updated.OverrideReason = reason
	updated.OverriddenAt = time.Now().UTC().Format(time.RFC3339)
	return &updated, nil
}

func negativeFactorTexts(factors []models.RiskFactor) []string {
	reasons := []string{}
	for _, f := range factors {
		if f.Type == models.FactorNegative {
			reasons = append(reasons, f.Text)
		}
	}
	return reasons
}
