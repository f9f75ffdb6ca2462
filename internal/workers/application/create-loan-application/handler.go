// internal/workers/application/create-loan-application/handler.go
package createloanapplication

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	apperrors "loan-origination-workers/internal/common/errors"
	"loan-origination-workers/internal/common/logger"
	"loan-origination-workers/internal/common/metrics"
	"loan-origination-workers/internal/models"
	"loan-origination-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "create-loan-application"
)

// Every application needs these four uploads before processing starts.
var requiredDocuments = []string{"idDocument", "salarySlip", "bankStatement", "selfie"}

type Handler struct {
	config *Config
	repo   store.Repository
	db     *sql.DB
	logger logger.Logger
}

// NewHandler wires the worker. db is optional; when present each created
// application also gets an audit log row.
func NewHandler(config *Config, repo store.Repository, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		repo:   repo,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code, retries := mapError(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
		h.failJob(client, job, code, err.Error(), retries)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	missing := []string{}
	for _, doc := range requiredDocuments {
		if input.Documents[doc] == "" {
			missing = append(missing, doc)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingDocumentsError(missing)
	}

	name := input.Name
	if name == "" {
		name = "Anonymous"
	}

	documents := make([]string, 0, len(input.Documents))
	for doc := range input.Documents {
		documents = append(documents, doc)
	}
	sort.Strings(documents)

	app, err := h.repo.Create(ctx, &models.Application{
		Applicant: &models.ApplicantInfo{
			Name:  name,
			Email: input.Email,
			Phone: input.Phone,
		},
		Documents: documents,
	})
	if err != nil {
		return nil, err
	}

	h.writeAuditLog(ctx, app, input)

	h.logger.Info("loan application created", map[string]interface{}{
		"applicationId": app.ID,
		"applicant":     name,
		"documents":     len(documents),
	})

	return &Output{
		ApplicationID:     app.ID,
		ApplicationStatus: app.Status,
		CreatedAt:         app.CreatedAt,
		Message:           "Documents uploaded successfully",
	}, nil
}

// writeAuditLog records creation for compliance. Non-critical: failures
// are logged but never fail the job.
func (h *Handler) writeAuditLog(ctx context.Context, app *models.Application, input *Input) {
	if h.db == nil {
		return
	}

	details, err := json.Marshal(map[string]interface{}{
		"applicant":  app.Applicant.Name,
		"documents":  app.Documents,
		"loanAmount": input.LoanAmount,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		details = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"application_created",
		"application",
		app.ID,
		details,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":         err,
			"applicationId": app.ID,
		})
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	if retries > 0 {
		_, err := client.NewFailJobCommand().
			JobKey(job.Key).
			Retries(retries).
			ErrorMessage(errorMessage).
			Send(context.Background())
		if err != nil {
			h.logger.Error("failed to fail job", map[string]interface{}{
				"error": err,
			})
		}
		return
	}

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func mapError(err error) (string, int32) {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		retries := apperrors.GetRetryCount(stdErr.Code)
		if !stdErr.Retryable {
			retries = 0
		}
		return string(stdErr.Code), int32(retries)
	}
	return "UNKNOWN_ERROR", 0
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
