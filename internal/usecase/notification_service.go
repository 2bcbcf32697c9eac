package usecase

import (
	"context"
	"fmt"
	"time"

	"arrivalcard-service/internal/domain/entity"
	"arrivalcard-service/internal/domain/repository"
	"arrivalcard-service/pkg/logger"
	"arrivalcard-service/pkg/metrics"
	"arrivalcard-service/templates"

	"go.uber.org/multierr"
)

// NotificationService fans lifecycle messages out to the user's
// preferred channels. Every event is guarded by a persisted flag on the
// submission: checked before any send attempt, set only after delivery
// succeeded, never reset. The transports have no deduplication of their
// own.
type NotificationService struct {
	userRepo       repository.UserRepository
	submissionRepo repository.SubmissionRepository
	email          repository.Notifier
	whatsapp       repository.Notifier
	logRepo        repository.NotificationLogRepository
	logger         logger.Logger
	metrics        *metrics.Metrics
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	userRepo repository.UserRepository,
	submissionRepo repository.SubmissionRepository,
	email repository.Notifier,
	whatsapp repository.Notifier,
	logRepo repository.NotificationLogRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *NotificationService {
	return &NotificationService{
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
		email:          email,
		whatsapp:       whatsapp,
		logRepo:        logRepo,
		logger:         logger,
		metrics:        metrics,
	}
}

// SendCompletion notifies the user that the filing succeeded
func (n *NotificationService) SendCompletion(ctx context.Context, submission *entity.Submission, itinerary *entity.Itinerary) error {
	if submission.NotificationsSent.Completion {
		n.logger.Debug("Completion notification already sent, skipping", "submissionId", submission.ID)
		return nil
	}

	subject, body := templates.Completion(itinerary.DestinationCountry, submission.ConfirmationNumber)
	if err := n.deliver(ctx, submission, entity.EventCompletion, subject, body); err != nil {
		return err
	}

	if err := n.submissionRepo.SetNotificationFlag(ctx, submission.ID, entity.EventCompletion); err != nil {
		return fmt.Errorf("failed to set completion flag: %w", err)
	}
	submission.NotificationsSent.Completion = true

	return nil
}

// SendReminder notifies the user that the submission window is closing
func (n *NotificationService) SendReminder(ctx context.Context, submission *entity.Submission, itinerary *entity.Itinerary) error {
	if submission.NotificationsSent.Reminder {
		n.logger.Debug("Reminder notification already sent, skipping", "submissionId", submission.ID)
		return nil
	}

	subject, body := templates.Reminder(itinerary.DestinationCountry, itinerary.SubmissionWindowEnd)
	if err := n.deliver(ctx, submission, entity.EventReminder, subject, body); err != nil {
		return err
	}

	if err := n.submissionRepo.SetNotificationFlag(ctx, submission.ID, entity.EventReminder); err != nil {
		return fmt.Errorf("failed to set reminder flag: %w", err)
	}
	submission.NotificationsSent.Reminder = true

	return nil
}

// SendConfirmation notifies the user that the itinerary was received
func (n *NotificationService) SendConfirmation(ctx context.Context, submission *entity.Submission, itinerary *entity.Itinerary) error {
	if submission.NotificationsSent.Confirmation {
		n.logger.Debug("Confirmation notification already sent, skipping", "submissionId", submission.ID)
		return nil
	}

	subject, body := templates.Confirmation(itinerary.DestinationCountry, itinerary.ScheduledSubmissionDate)
	if err := n.deliver(ctx, submission, entity.EventConfirmation, subject, body); err != nil {
		return err
	}

	if err := n.submissionRepo.SetNotificationFlag(ctx, submission.ID, entity.EventConfirmation); err != nil {
		return fmt.Errorf("failed to set confirmation flag: %w", err)
	}
	submission.NotificationsSent.Confirmation = true

	return nil
}

// deliver fans one message out to every channel the user asked for.
// "both" is two independent messages sharing the one event flag: if any
// channel fails the flag stays false and a later pass may retry.
func (n *NotificationService) deliver(ctx context.Context, submission *entity.Submission, event entity.NotificationEvent, subject, body string) error {
	user, err := n.userRepo.GetByID(ctx, submission.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve user %d: %w", submission.UserID, err)
	}

	channels := user.PreferredNotification.Channels()
	if len(channels) == 0 {
		return fmt.Errorf("user %d has no notification preference", user.ID)
	}

	var errs error
	for _, channel := range channels {
		notifier, recipient := n.route(channel, user)
		if recipient == "" {
			errs = multierr.Append(errs, fmt.Errorf("user %d has no %s contact", user.ID, channel))
			continue
		}

		if err := notifier.Send(ctx, recipient, subject, body); err != nil {
			n.logger.Error("Notification send failed",
				"submissionId", submission.ID,
				"event", event,
				"channel", channel,
				"error", err)
			n.metrics.ErrorsCount.WithLabelValues("notification_send").Inc()
			errs = multierr.Append(errs, err)
			continue
		}

		n.metrics.NotificationsSent.WithLabelValues(string(channel), string(event)).Inc()
		n.audit(ctx, submission, user, event, channel, recipient, body)
	}

	return errs
}

func (n *NotificationService) route(channel entity.NotificationChannel, user *entity.User) (repository.Notifier, string) {
	if channel == entity.ChannelWhatsApp {
		return n.whatsapp, user.Phone
	}
	return n.email, user.Email
}

// audit is best-effort: a log write failure never blocks delivery
func (n *NotificationService) audit(ctx context.Context, submission *entity.Submission, user *entity.User, event entity.NotificationEvent, channel entity.NotificationChannel, recipient, body string) {
	entry := &entity.NotificationLog{
		SubmissionID: submission.ID,
		UserID:       user.ID,
		Event:        event,
		Channel:      channel,
		Recipient:    recipient,
		Message:      body,
		SentAt:       time.Now(),
	}

	if err := n.logRepo.Create(ctx, entry); err != nil {
		n.logger.Error("Failed to record notification log",
			"submissionId", submission.ID,
			"event", event,
			"error", err)
	}
}
