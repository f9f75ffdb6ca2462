// internal/workers/application/query-applications/handler.go
package queryapplications

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
	"loan-origination-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "query-applications"
)

type Handler struct {
	config *Config
	repo   store.Repository
	es     *elasticsearch.Client
	logger logger.Logger
}

// NewHandler wires the worker. es is optional; without it the "search"
// query type is rejected while get/list/stats keep working off the store.
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
	switch input.QueryType {
	case QueryTypeGet:
		return h.getApplication(ctx, input)
	case QueryTypeList, "":
		return h.listApplications(ctx, input)
	case QueryTypeStats:
		return h.applicationStats(ctx)
	case QueryTypeSearch:
		return h.searchApplications(ctx, input)
	default:
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("unknown query type: %s", input.QueryType))
	}
}

func (h *Handler) getApplication(ctx context.Context, input *Input) (*Output, error) {
	if input.ApplicationID == "" {
		return nil, apperrors.NewApplicationNotFoundError("")
	}
	app, err := h.repo.Get(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	return &Output{Application: app, TotalHits: 1}, nil
}

func (h *Handler) listApplications(ctx context.Context, input *Input) (*Output, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}

	apps, err := h.repo.List(ctx, &models.ApplicationFilter{
		Status: input.Status,
		Result: input.Result,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	return &Output{Applications: apps, TotalHits: len(apps)}, nil
}

func (h *Handler) applicationStats(ctx context.Context) (*Output, error) {
	stats, err := h.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &Output{Stats: stats, TotalHits: stats.Total}, nil
}

// searchApplications runs a full-text query over the decision index.
func (h *Handler) searchApplications(ctx context.Context, input *Input) (*Output, error) {
	if h.es == nil {
		return nil, apperrors.NewSearchQueryFailedError(errors.New("search backend not configured"))
	}
	if input.SearchText == "" {
		return nil, apperrors.NewSearchQueryFailedError(errors.New("searchText is required for search queries"))
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}

	query := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  input.SearchText,
				"fields": []string{"applicantName", "result", "category", "reasons"},
			},
		},
		"sort": []map[string]interface{}{
			{"decidedAt": map[string]interface{}{"order": "desc"}},
		},
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(query); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}

	res, err := h.es.Search(
		h.es.Search.WithContext(ctx),
		h.es.Search.WithIndex(h.config.SearchIndex),
		h.es.Search.WithBody(&body),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewSearchTimeoutError()
		}
		return nil, apperrors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("search returned %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(err)
	}

	hits := make([]map[string]interface{}, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		hits = append(hits, hit.Source)
	}

	return &Output{SearchHits: hits, TotalHits: parsed.Hits.Total.Value}, nil
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
