package repository

import (
	"context"
	"time"

	"arrivalcard-service/internal/domain/entity"
)

// SubmissionRepository defines the interface for submission storage operations
type SubmissionRepository interface {
	Save(ctx context.Context, submission *entity.Submission) error
	FindByID(ctx context.Context, id string) (*entity.Submission, error)
	FindByItinerary(ctx context.Context, itineraryID string) (*entity.Submission, error)
	// FindPaidByItinerary returns the paid submission for an itinerary,
	// or nil with no error when none exists.
	FindPaidByItinerary(ctx context.Context, itineraryID string) (*entity.Submission, error)
	// UpdateStatus is an atomic single-document status write.
	UpdateStatus(ctx context.Context, id string, status entity.SubmissionStatus) error
	UpdatePayment(ctx context.Context, id string, status entity.PaymentStatus, paymentID string) error
	// MarkCompleted records the successful filing outcome in one write.
	MarkCompleted(ctx context.Context, id, confirmationNumber, notes string, submittedAt time.Time) error
	// MarkFailed records the failed filing outcome in one write.
	MarkFailed(ctx context.Context, id, notes string) error
	// SetNotificationFlag sets the idempotency flag for one event. Flags
	// are only ever set to true, never reset.
	SetNotificationFlag(ctx context.Context, id string, event entity.NotificationEvent) error
	DeleteByItinerary(ctx context.Context, itineraryID string) error
}
