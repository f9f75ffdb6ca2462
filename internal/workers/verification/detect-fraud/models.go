// internal/workers/verification/detect-fraud/models.go
package detectfraud

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	ApplicationID string   `json:"applicationId"`
	FraudDetected bool     `json:"fraudDetected"`
	RiskLevel     string   `json:"riskLevel"`
	Flags         []string `json:"flags"`
	Confidence    float64  `json:"confidence"`
}
