// internal/models/kyc.go
package models

// KYC overall statuses.
const (
	KycStatusVerified    = "verified"
	KycStatusNeedsReview = "needs_review"
)

// Fraud risk levels.
const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

type KycResult struct {
	Success      bool          `json:"success"`
	KycStatus    string        `json:"kycStatus"`
	Checks       *KycChecks    `json:"checks"`
	VerifiedData *VerifiedData `json:"verifiedData,omitempty"`
}

type KycChecks struct {
	IdentityVerification IdentityCheck  `json:"identityVerification"`
	FaceMatch            FaceMatchCheck `json:"faceMatch"`
	Liveness             LivenessCheck  `json:"liveness"`
}

type IdentityCheck struct {
	Passed     bool    `json:"passed"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method,omitempty"`
}

type FaceMatchCheck struct {
	Passed     bool    `json:"passed"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence,omitempty"`
}

type LivenessCheck struct {
	Passed bool    `json:"passed"`
	Score  float64 `json:"score"`
	Method string  `json:"method,omitempty"`
}

type VerifiedData struct {
	NameMatch       bool `json:"nameMatch"`
	DobMatch        bool `json:"dobMatch"`
	AddressVerified bool `json:"addressVerified"`
}

type FraudResult struct {
	FraudDetected bool           `json:"fraudDetected"`
	RiskLevel     string         `json:"riskLevel"`
	Flags         []string       `json:"flags"`
	Confidence    float64        `json:"confidence"`
	Analysis      *FraudAnalysis `json:"analysis,omitempty"`
}

type FraudAnalysis struct {
	DocumentAuthenticity float64 `json:"documentAuthenticity"`
	BehaviorScore        float64 `json:"behaviorScore"`
	DeviceTrust          float64 `json:"deviceTrust"`
}
