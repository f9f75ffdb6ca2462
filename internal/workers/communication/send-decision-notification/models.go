// internal/workers/communication/send-decision-notification/models.go
package senddecisionnotification

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	ApplicationID string   `json:"applicationId"`
	EmailSent     bool     `json:"emailSent"`
	SmsSent       bool     `json:"smsSent"`
	Channels      []string `json:"channels"`
	MessageID     string   `json:"messageId,omitempty"`
}

// EmailSender and SmsSender are satisfied by the shared SES/SNS client
// wrappers; tests substitute in-memory fakes.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SmsSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}
