package notify

import (
	"context"
	"fmt"

	"go-inventory-ledger/internal/model"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const senderName = "在庫管理"

// SendGridClient implements EmailClient over the SendGrid v3 API.
// The settings password is unused; the API key authenticates.
type SendGridClient struct {
	apiKey string
	log    *zap.Logger
}

func NewSendGridClient(apiKey string, log *zap.Logger) *SendGridClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &SendGridClient{apiKey: apiKey, log: log}
}

func (c *SendGridClient) Send(ctx context.Context, settings model.MailSettings, subject, body string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if settings.Sender == "" {
		return fmt.Errorf("from address is empty")
	}
	if settings.Recipient == "" {
		return fmt.Errorf("to address is empty")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(senderName, settings.Sender),
		subject,
		sgmail.NewEmail("", settings.Recipient),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	response, err := sendgrid.NewSendClient(c.apiKey).SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		c.log.Error("sendgrid rejected message", zap.Int("status", response.StatusCode), zap.String("body", response.Body))
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	c.log.Info("sendgrid mail sent", zap.Int("status", response.StatusCode), zap.String("to", settings.Recipient))
	return nil
}
