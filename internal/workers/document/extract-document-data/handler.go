// internal/workers/document/extract-document-data/handler.go
package extractdocumentdata

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
	"loan-origination-workers/internal/providers"
	"loan-origination-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "extract-document-data"

	cacheKeyPrefix = "loan:ocr:"
)

type Handler struct {
	config    *Config
	repo      store.Repository
	extractor providers.DocumentExtractor
	tamper    providers.TamperDetector
	cache     *redis.Client
	logger    logger.Logger
}

// NewHandler wires the worker. cache is optional; with it repeated
// extraction for the same application is served from Redis.
func NewHandler(config *Config, repo store.Repository, extractor providers.DocumentExtractor, tamper providers.TamperDetector, cache *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		repo:      repo,
		extractor: extractor,
		tamper:    tamper,
		cache:     cache,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

	if cached := h.cachedResult(ctx, input.ApplicationID); cached != nil {
		// The cache can outlive the record (memory backend restart), so
		// a hit still has to land the result on the stored application.
		_, err := h.repo.Update(ctx, app.ID, func(a *models.Application) {
			a.OCR = cached
			a.Status = models.StatusOCRCompleted
		})
		if err != nil {
			return nil, err
		}
		h.logger.Info("serving extraction from cache", map[string]interface{}{
			"applicationId": input.ApplicationID,
		})
		return h.buildOutput(input.ApplicationID, cached, nil, true), nil
	}

	tamperResult, err := h.tamper.Inspect(ctx, app.Documents)
	if err != nil {
		return nil, apperrors.NewOCRFailedError(fmt.Errorf("tamper inspection: %w", err))
	}

	ocrResult, err := h.extractor.Extract(ctx, app.Documents)
	if err != nil {
		return nil, apperrors.NewOCRFailedError(err)
	}

	_, err = h.repo.Update(ctx, app.ID, func(a *models.Application) {
		a.OCR = ocrResult
		a.Status = models.StatusOCRCompleted
	})
	if err != nil {
		return nil, err
	}

	h.cacheResult(ctx, input.ApplicationID, ocrResult)

	h.logger.Info("document data extracted", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"confidence":    ocrResult.Confidence,
		"documents":     ocrResult.DocumentsProcessed,
		"tampered":      tamperResult.Tampered,
	})

	return h.buildOutput(input.ApplicationID, ocrResult, tamperResult, false), nil
}

func (h *Handler) buildOutput(applicationID string, ocr *models.OCRResult, tamper *models.TamperResult, fromCache bool) *Output {
	output := &Output{
		ApplicationID:      applicationID,
		ExtractedData:      ocr.ExtractedData,
		Confidence:         ocr.Confidence,
		DocumentsProcessed: ocr.DocumentsProcessed,
		FromCache:          fromCache,
	}
	if tamper != nil {
		output.Tampered = tamper.Tampered
		output.TamperIndicators = tamper.Indicators
	}
	return output
}

func (h *Handler) cachedResult(ctx context.Context, applicationID string) *models.OCRResult {
	if h.cache == nil {
		return nil
	}

	data, err := h.cache.Get(ctx, cacheKeyPrefix+applicationID).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		h.logger.Warn("cache read failed", map[string]interface{}{
			"error":         err,
			"applicationId": applicationID,
		})
		return nil
	}

	var result models.OCRResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		h.logger.Warn("cache entry corrupted", map[string]interface{}{
			"error":         err,
			"applicationId": applicationID,
		})
		return nil
	}
	return &result
}

// cacheResult is best effort; a cache failure never fails the job.
func (h *Handler) cacheResult(ctx context.Context, applicationID string, result *models.OCRResult) {
	if h.cache == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, cacheKeyPrefix+applicationID, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("cache write failed", map[string]interface{}{
			"error":         err,
			"applicationId": applicationID,
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
