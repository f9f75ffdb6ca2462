// internal/models/decision.go
package models

// Decision outcomes.
const (
	ResultApproved      = "approved"
	ResultNeedDocuments = "need_documents"
	ResultRejected      = "rejected"
)

// Decision is the final outcome of the pipeline. Exactly one of the
// outcome-specific field groups is populated depending on Result.
type Decision struct {
	Result      string `json:"result"`
	ResultLabel string `json:"resultLabel"`
	Message     string `json:"message"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`

	// approved
	LoanAmount   int     `json:"loanAmount,omitempty"`
	InterestRate float64 `json:"interestRate,omitempty"`
	Tenure       int     `json:"tenure,omitempty"`

	// need_documents
	RequiredDocuments []string `json:"requiredDocuments,omitempty"`

	// rejected
	Reasons []string `json:"reasons,omitempty"`

	NextSteps []string `json:"nextSteps"`
	DecidedAt string   `json:"decidedAt"`
	Automated bool     `json:"automated"`

	// Set only when an admin overrides the automated outcome.
	Overridden     bool   `json:"overridden,omitempty"`
	OverrideReason string `json:"overrideReason,omitempty"`
	OverriddenAt   string `json:"overriddenAt,omitempty"`
}
