// internal/workers/decision/calculate-risk-score/handler.go
package calculateriskscore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "loan-origination-workers/internal/common/errors"
	"loan-origination-workers/internal/common/logger"
	"loan-origination-workers/internal/common/metrics"
	"loan-origination-workers/internal/models"
	"loan-origination-workers/internal/risk"
	"loan-origination-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-risk-score"
)

type Handler struct {
	config *Config
	repo   store.Repository
	logger logger.Logger
}

func NewHandler(config *Config, repo store.Repository, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		repo:   repo,
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
	if input.ApplicationID == "" {
		return nil, apperrors.NewApplicationNotFoundError("")
	}

	app, err := h.repo.Get(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.OCR == nil || app.OCR.ExtractedData == nil || app.KYC == nil || app.Fraud == nil {
		return nil, apperrors.NewRiskDataMissingError(input.ApplicationID)
	}

	riskScore, err := risk.Calculate(app.OCR.ExtractedData, app.KYC, app.Fraud)
	if err != nil {
		return nil, err
	}
	riskScore.Recommendation = risk.Recommend(riskScore)

	_, err = h.repo.Update(ctx, app.ID, func(a *models.Application) {
		a.RiskScore = riskScore
		a.Status = models.StatusRiskCalculated
	})
	if err != nil {
		return nil, err
	}

	metrics.RiskScoreDistribution.Observe(float64(riskScore.Score))

	h.logger.Info("risk score calculated", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"score":         riskScore.Score,
		"category":      riskScore.Category,
	})

	return &Output{
		ApplicationID:  input.ApplicationID,
		RiskScore:      riskScore.Score,
		RiskCategory:   riskScore.Category,
		CategoryLabel:  riskScore.CategoryLabel,
		Breakdown:      riskScore.Breakdown,
		Factors:        riskScore.Factors,
		Recommendation: riskScore.Recommendation,
	}, nil
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
