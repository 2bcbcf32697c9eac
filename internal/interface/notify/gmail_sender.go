package notify

import (
	"context"
	"encoding/base64"
	"fmt"

	"arrivalcard-service/internal/domain/repository"
	"arrivalcard-service/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailNotifier sends email notifications through the Gmail API
type GmailNotifier struct {
	service *gmail.Service
	from    string
	logger  logger.Logger
}

// NewGmailNotifier creates a new Gmail notifier
func NewGmailNotifier(ctx context.Context, tokenSource oauth2.TokenSource, from string, logger logger.Logger) (repository.Notifier, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &GmailNotifier{
		service: service,
		from:    from,
		logger:  logger,
	}, nil
}

// Send delivers one email. The raw message must be base64url encoded
// per the Gmail API contract.
func (n *GmailNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		n.from, recipient, subject, body)

	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	sent, err := n.service.Users.Messages.Send("me", message).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("Email sent",
		"to", recipient,
		"subject", subject,
		"messageId", sent.Id)

	return nil
}
