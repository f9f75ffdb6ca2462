// internal/workers/decision/make-loan-decision/handler.go
package makeloandecision

import (
	"bytes"
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
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	TaskType = "make-loan-decision"
)

type Handler struct {
	config *Config
	repo   store.Repository
	es     *elasticsearch.Client
	logger logger.Logger
}

// NewHandler wires the worker. es is optional; without it decisions are
// still made and stored, they just don't land in the search index.
func NewHandler(config *Config, repo store.Repository, es *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		repo:   repo,
		es:     es,
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
	if app.RiskScore == nil {
		return nil, apperrors.NewDecisionDataMissingError(input.ApplicationID)
	}

	decision, err := risk.Decide(app.RiskScore)
	if err != nil {
		return nil, err
	}

	updated, err := h.repo.Update(ctx, app.ID, func(a *models.Application) {
		a.Decision = decision
		a.Status = models.StatusCompleted
	})
	if err != nil {
		return nil, err
	}

	metrics.ApplicationsDecided.WithLabelValues(decision.Result).Inc()

	// Indexing is best effort. A search outage must not block decisions.
	if err := h.indexDecision(ctx, updated, decision); err != nil {
		h.logger.Warn("failed to index decision", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"error":         err.Error(),
		})
	}

	h.logger.Info("loan decision made", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"result":        decision.Result,
		"score":         app.RiskScore.Score,
	})

	return &Output{
		ApplicationID:     input.ApplicationID,
		Decision:          decision,
		ApplicationStatus: models.StatusCompleted,
	}, nil
}

func (h *Handler) indexDecision(ctx context.Context, app *models.Application, decision *models.Decision) error {
	if h.es == nil {
		return nil
	}

	doc := decisionDocument{
		ApplicationID: app.ID,
		Result:        decision.Result,
		Category:      app.RiskScore.Category,
		Score:         app.RiskScore.Score,
		Reasons:       decision.Reasons,
		DecidedAt:     decision.DecidedAt,
	}
	if app.Applicant != nil {
		doc.ApplicantName = app.Applicant.Name
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewIndexWriteFailedError(err)
	}

	req := esapi.IndexRequest{
		Index:      h.config.DecisionIndex,
		DocumentID: app.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, h.es)
	if err != nil {
		return apperrors.NewIndexWriteFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewIndexWriteFailedError(fmt.Errorf("index response: %s", res.Status()))
	}
	return nil
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
