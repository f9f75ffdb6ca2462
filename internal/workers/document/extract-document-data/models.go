// internal/workers/document/extract-document-data/models.go
package extractdocumentdata

import "loan-origination-workers/internal/models"

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	ApplicationID      string                `json:"applicationId"`
	ExtractedData      *models.ExtractedData `json:"extractedData"`
	Confidence         float64               `json:"confidence"`
	DocumentsProcessed int                   `json:"documentsProcessed"`
	Tampered           bool                  `json:"tampered"`
	TamperIndicators   []string              `json:"tamperIndicators,omitempty"`
	FromCache          bool                  `json:"fromCache"`
}
