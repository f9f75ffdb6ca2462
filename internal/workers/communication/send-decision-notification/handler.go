// internal/workers/communication/send-decision-notification/handler.go
package senddecisionnotification

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
	"loan-origination-workers/internal/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-decision-notification"
)

type Handler struct {
	config *Config
	repo   store.Repository
	email  EmailSender
	sms    SmsSender
	logger logger.Logger
}

// NewHandler wires the worker. email and sms are each optional; a nil
// sender simply skips that channel.
func NewHandler(config *Config, repo store.Repository, email EmailSender, sms SmsSender, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		repo:   repo,
		email:  email,
		sms:    sms,
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
	if app.Decision == nil {
		return nil, apperrors.NewDecisionDataMissingError(input.ApplicationID)
	}

	output := &Output{
		ApplicationID: input.ApplicationID,
		Channels:      []string{},
		MessageID:     uuid.NewString(),
	}

	if h.email != nil && app.Applicant != nil && app.Applicant.Email != "" {
		if err := h.sendEmail(ctx, app); err != nil {
			return nil, err
		}
		output.EmailSent = true
		output.Channels = append(output.Channels, "email")
	}

	// SMS only carries final outcomes; a documents request goes by email,
	// which lists what is missing.
	smsWorthy := app.Decision.Result == models.ResultApproved || app.Decision.Result == models.ResultRejected
	if h.sms != nil && smsWorthy && app.Applicant != nil && app.Applicant.Phone != "" {
		if err := h.sendSms(ctx, app); err != nil {
			return nil, err
		}
		output.SmsSent = true
		output.Channels = append(output.Channels, "sms")
	}

	h.logger.Info("decision notification sent", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"result":        app.Decision.Result,
		"channels":      output.Channels,
	})

	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, app *models.Application) error {
	subject := fmt.Sprintf("Loan application %s: %s", app.ID, app.Decision.ResultLabel)
	body := buildEmailBody(app)

	_, err := h.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.config.FromAddress),
		Destination: &sestypes.Destination{
			ToAddresses: []string{app.Applicant.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return apperrors.NewNotificationSendFailedError("email", err)
	}
	return nil
}

func (h *Handler) sendSms(ctx context.Context, app *models.Application) error {
	message := fmt.Sprintf("%s Application %s. %s", app.Decision.ResultLabel, app.ID, app.Decision.Message)

	_, err := h.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(app.Applicant.Phone),
		Message:     aws.String(message),
	})
	if err != nil {
		return apperrors.NewNotificationSendFailedError("sms", err)
	}
	return nil
}

func buildEmailBody(app *models.Application) string {
	d := app.Decision
	body := fmt.Sprintf("Dear %s,\n\n%s\n", app.Applicant.Name, d.Message)

	if d.Result == models.ResultApproved {
		body += fmt.Sprintf("\nApproved amount: up to %d\nInterest rate: %.1f%%\nTenure: %d months\n",
			d.LoanAmount, d.InterestRate, d.Tenure)
	}
	if len(d.RequiredDocuments) > 0 {
		body += "\nRequired documents:\n"
		for _, doc := range d.RequiredDocuments {
			body += fmt.Sprintf("  - %s\n", doc)
		}
	}
	if len(d.NextSteps) > 0 {
		body += "\nNext steps:\n"
		for _, step := range d.NextSteps {
			body += fmt.Sprintf("  - %s\n", step)
		}
	}
	return body
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
