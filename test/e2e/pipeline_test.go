// test/e2e/pipeline_test.go
//
// Drives a loan application through every pipeline stage in BPMN order,
// sharing one repository across the worker handlers. External vendors
// are replaced by deterministic stubs so each stage's outcome is fixed.
package e2e

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-origination-workers/internal/common/logger"
	"loan-origination-workers/internal/models"
	"loan-origination-workers/internal/store"

	cla "loan-origination-workers/internal/workers/application/create-loan-application"
	qa "loan-origination-workers/internal/workers/application/query-applications"
	vad "loan-origination-workers/internal/workers/application/validate-application-data"
	sdn "loan-origination-workers/internal/workers/communication/send-decision-notification"
	crs "loan-origination-workers/internal/workers/decision/calculate-risk-score"
	mld "loan-origination-workers/internal/workers/decision/make-loan-decision"
	od "loan-origination-workers/internal/workers/decision/override-decision"
	edd "loan-origination-workers/internal/workers/document/extract-document-data"
	df "loan-origination-workers/internal/workers/verification/detect-fraud"
	pkc "loan-origination-workers/internal/workers/verification/perform-kyc-checks"
)

// ==========================
// Deterministic vendor stubs
// ==========================

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, documents []string) (*models.OCRResult, error) {
	return &models.OCRResult{
		Success: true,
		ExtractedData: &models.ExtractedData{
			Name:               "Rahul Sharma",
			IDNumber:           "IN1234567890",
			Employer:           "TCS",
			MonthlySalary:      85000,
			AverageBalance:     150000,
			RecentTransactions: 40,
		},
		Confidence:         0.92,
		DocumentsProcessed: len(documents),
	}, nil
}

type stubTamper struct{}

func (stubTamper) Inspect(_ context.Context, _ []string) (*models.TamperResult, error) {
	return &models.TamperResult{Tampered: false, Confidence: 0.97, Indicators: []string{}}, nil
}

type stubKyc struct{}

func (stubKyc) Verify(_ context.Context, _ *models.ExtractedData) (*models.KycResult, error) {
	return &models.KycResult{
		Success:   true,
		KycStatus: models.KycStatusVerified,
		Checks: &models.KycChecks{
			IdentityVerification: models.IdentityCheck{Passed: true, Confidence: 0.94, Method: "document_analysis"},
			FaceMatch:            models.FaceMatchCheck{Passed: true, Score: 0.89, Confidence: 0.89},
			Liveness:             models.LivenessCheck{Passed: true, Score: 0.96, Method: "motion_detection"},
		},
	}, nil
}

type stubFraud struct{}

func (stubFraud) Detect(_ context.Context, _ *models.ExtractedData, _ *models.KycResult) (*models.FraudResult, error) {
	return &models.FraudResult{
		FraudDetected: false,
		RiskLevel:     models.RiskLevelLow,
		Flags:         []string{},
		Confidence:    0.95,
	}, nil
}

type stubEmailSender struct {
	sent []*ses.SendEmailInput
}

func (s *stubEmailSender) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	s.sent = append(s.sent, input)
	return &ses.SendEmailOutput{}, nil
}

type stubSmsSender struct {
	sent []*sns.PublishInput
}

func (s *stubSmsSender) Publish(_ context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	s.sent = append(s.sent, input)
	return &sns.PublishOutput{}, nil
}

// ==========================
// Full pipeline walkthrough
// ==========================

func TestLoanOriginationPipeline(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepository()
	log := logger.NewTestLogger(t)

	email := &stubEmailSender{}
	sms := &stubSmsSender{}

	var applicationID string

	t.Run("create loan application", func(t *testing.T) {
		handler := cla.NewHandler(cla.LoadConfig(), repo, nil, log)

		output, err := handler.Execute(ctx, &cla.Input{
			Name:       "Rahul Sharma",
			Email:      "rahul.sharma@example.com",
			Phone:      "+919876543210",
			LoanAmount: 500000,
			Documents: map[string]string{
				"idDocument":    "id.pdf",
				"salarySlip":    "salary.pdf",
				"bankStatement": "statement.pdf",
				"selfie":        "selfie.jpg",
			},
		})

		require.NoError(t, err)
		require.NotEmpty(t, output.ApplicationID)
		assert.Equal(t, models.StatusProcessing, output.ApplicationStatus)
		applicationID = output.ApplicationID
	})

	t.Run("validate application data", func(t *testing.T) {
		handler := vad.NewHandler(vad.LoadConfig(), log)

		output, err := handler.Execute(ctx, &vad.Input{
			ApplicationID: applicationID,
			ApplicationData: map[string]interface{}{
				"name":       "Rahul Sharma",
				"email":      "rahul.sharma@example.com",
				"phone":      "+919876543210",
				"loanAmount": 500000,
			},
		})

		require.NoError(t, err)
		assert.True(t, output.IsValid)
		assert.Empty(t, output.ValidationErrors)
	})

	t.Run("extract document data", func(t *testing.T) {
		handler := edd.NewHandler(edd.LoadConfig(), repo, stubExtractor{}, stubTamper{}, nil, log)

		output, err := handler.Execute(ctx, &edd.Input{ApplicationID: applicationID})

		require.NoError(t, err)
		require.NotNil(t, output.ExtractedData)
		assert.Equal(t, 85000, output.ExtractedData.MonthlySalary)
		assert.Equal(t, 4, output.DocumentsProcessed)
		assert.False(t, output.Tampered)

		app, err := repo.Get(ctx, applicationID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusOCRCompleted, app.Status)
	})

	t.Run("perform kyc checks", func(t *testing.T) {
		handler := pkc.NewHandler(pkc.LoadConfig(), repo, stubKyc{}, log)

		output, err := handler.Execute(ctx, &pkc.Input{ApplicationID: applicationID})

		require.NoError(t, err)
		assert.Equal(t, models.KycStatusVerified, output.KycStatus)

		app, err := repo.Get(ctx, applicationID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusKYCCompleted, app.Status)
	})

	t.Run("detect fraud", func(t *testing.T) {
		handler := df.NewHandler(df.LoadConfig(), repo, stubFraud{}, log)

		output, err := handler.Execute(ctx, &df.Input{ApplicationID: applicationID})

		require.NoError(t, err)
		assert.False(t, output.FraudDetected)
		assert.Equal(t, models.RiskLevelLow, output.RiskLevel)
	})

	t.Run("calculate risk score", func(t *testing.T) {
		handler := crs.NewHandler(crs.LoadConfig(), repo, log)

		output, err := handler.Execute(ctx, &crs.Input{ApplicationID: applicationID})

		require.NoError(t, err)
		assert.Equal(t, 87, output.RiskScore)
		assert.Equal(t, models.CategoryLowRisk, output.RiskCategory)

		app, err := repo.Get(ctx, applicationID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRiskCalculated, app.Status)
	})

	t.Run("make loan decision", func(t *testing.T) {
		handler := mld.NewHandler(mld.LoadConfig(), repo, nil, log)

		output, err := handler.Execute(ctx, &mld.Input{ApplicationID: applicationID})

		require.NoError(t, err)
		require.NotNil(t, output.Decision)
		assert.Equal(t, models.ResultApproved, output.Decision.Result)
		assert.True(t, output.Decision.Automated)
		assert.Equal(t, 950000, output.Decision.LoanAmount)
		assert.Equal(t, 10.5, output.Decision.InterestRate)

		app, err := repo.Get(ctx, applicationID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, app.Status)
	})

	t.Run("query application state", func(t *testing.T) {
		handler := qa.NewHandler(qa.LoadConfig(), repo, nil, log)

		output, err := handler.Execute(ctx, &qa.Input{
			QueryType:     qa.QueryTypeGet,
			ApplicationID: applicationID,
		})
		require.NoError(t, err)
		require.NotNil(t, output.Application)
		require.NotNil(t, output.Application.Decision)
		assert.Equal(t, models.ResultApproved, output.Application.Decision.Result)

		stats, err := handler.Execute(ctx, &qa.Input{QueryType: qa.QueryTypeStats})
		require.NoError(t, err)
		require.NotNil(t, stats.Stats)
		assert.Equal(t, 1, stats.Stats.Total)
		assert.Equal(t, 1, stats.Stats.Approved)
	})

	t.Run("override decision", func(t *testing.T) {
		handler := od.NewHandler(od.LoadConfig(), repo, nil, log)

		output, err := handler.Execute(ctx, &od.Input{
			ApplicationID:    applicationID,
			OverrideDecision: models.ResultRejected,
			Reason:           "income could not be verified with the employer",
		})

		require.NoError(t, err)
		assert.True(t, output.Overridden)
		require.NotNil(t, output.Decision)
		assert.Equal(t, models.ResultRejected, output.Decision.Result)
		assert.False(t, output.Decision.Automated)
	})

	t.Run("send decision notification", func(t *testing.T) {
		handler := sdn.NewHandler(sdn.LoadConfig(), repo, email, sms, log)

		output, err := handler.Execute(ctx, &sdn.Input{ApplicationID: applicationID})

		require.NoError(t, err)
		assert.True(t, output.EmailSent)
		assert.True(t, output.SmsSent)
		assert.ElementsMatch(t, []string{"email", "sms"}, output.Channels)
		assert.NotEmpty(t, output.MessageID)

		require.Len(t, email.sent, 1)
		assert.Equal(t, []string{"rahul.sharma@example.com"}, email.sent[0].Destination.ToAddresses)
		require.Len(t, sms.sent, 1)
	})
}
