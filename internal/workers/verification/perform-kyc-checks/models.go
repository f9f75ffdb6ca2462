// internal/workers/verification/perform-kyc-checks/models.go
package performkycchecks

import "loan-origination-workers/internal/models"

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	ApplicationID string            `json:"applicationId"`
	KycStatus     string            `json:"kycStatus"`
	Checks        *models.KycChecks `json:"checks"`
}
