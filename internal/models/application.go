// internal/models/application.go
package models

// Application statuses as the pipeline advances. Each worker moves the
// record forward exactly one stage.
const (
	StatusProcessing     = "processing"
	StatusOCRCompleted   = "ocr_completed"
	StatusKYCCompleted   = "kyc_completed"
	StatusRiskCalculated = "risk_calculated"
	StatusCompleted      = "completed"
)

type Application struct {
	ID        string         `json:"id"`
	Applicant *ApplicantInfo `json:"applicant,omitempty"`
	Documents []string       `json:"documents,omitempty"`
	OCR       *OCRResult     `json:"ocr,omitempty"`
	KYC       *KycResult     `json:"kyc,omitempty"`
	Fraud     *FraudResult   `json:"fraud,omitempty"`
	RiskScore *RiskScore     `json:"riskScore,omitempty"`
	Decision  *Decision      `json:"decision,omitempty"`
	Status    string         `json:"status"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
}

type ApplicantInfo struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
