// internal/workers/decision/make-loan-decision/models.go
package makeloandecision

import "loan-origination-workers/internal/models"

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	ApplicationID     string           `json:"applicationId"`
	Decision          *models.Decision `json:"decision"`
	ApplicationStatus string           `json:"applicationStatus"`
}

// decisionDocument is what gets indexed for full-text search. Field
// names line up with the multi_match fields used by query-applications.
type decisionDocument struct {
	ApplicationID string   `json:"applicationId"`
	ApplicantName string   `json:"applicantName"`
	Result        string   `json:"result"`
	Category      string   `json:"category"`
	Score         int      `json:"score"`
	Reasons       []string `json:"reasons,omitempty"`
	DecidedAt     string   `json:"decidedAt"`
}
