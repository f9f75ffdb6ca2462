// internal/providers/providers.go

// Package providers defines the external collaborators of the loan
// pipeline. The scoring core only depends on the records these
// interfaces produce, so the bundled simulators can be swapped for real
// OCR/KYC vendors without touching the scorer or decision engine.
package providers

import (
	"context"

	"loan-origination-workers/internal/models"
)

// DocumentExtractor parses structured fields out of uploaded documents.
type DocumentExtractor interface {
	Extract(ctx context.Context, documents []string) (*models.OCRResult, error)
}

// KycProvider runs identity, face-match, and liveness verification.
type KycProvider interface {
	Verify(ctx context.Context, data *models.ExtractedData) (*models.KycResult, error)
}

// FraudDetector analyzes extracted data plus KYC output for fraud signals.
type FraudDetector interface {
	Detect(ctx context.Context, data *models.ExtractedData, kyc *models.KycResult) (*models.FraudResult, error)
}

// TamperDetector inspects uploaded files for manipulation artifacts.
type TamperDetector interface {
	Inspect(ctx context.Context, documents []string) (*models.TamperResult, error)
}
