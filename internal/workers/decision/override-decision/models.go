// internal/workers/decision/override-decision/models.go
package overridedecision

import "loan-origination-workers/internal/models"

type Input struct {
	ApplicationID    string `json:"applicationId"`
	OverrideDecision string `json:"overrideDecision"`
	Reason           string `json:"reason"`
}

type Output struct {
	ApplicationID string           `json:"applicationId"`
	Decision      *models.Decision `json:"decision"`
	Overridden    bool             `json:"overridden"`
}
