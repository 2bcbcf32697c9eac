package usecase

import (
	"context"
	"errors"
	"fmt"

	"arrivalcard-service/internal/domain/entity"
	"arrivalcard-service/internal/domain/repository"
	"arrivalcard-service/pkg/logger"
)

var (
	// ErrAlreadyPaid is returned when a payment is recorded twice.
	ErrAlreadyPaid = errors.New("payment already processed")

	// ErrSubmissionNotCompleted is returned when an itinerary is
	// completed off a submission that has not finished.
	ErrSubmissionNotCompleted = errors.New("submission is not completed")
)

// SubmissionService handles the out-of-band submission mutations:
// payment capture results and operator review
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	itineraryRepo  repository.ItineraryRepository
	logger         logger.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	itineraryRepo repository.ItineraryRepository,
	logger logger.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		itineraryRepo:  itineraryRepo,
		logger:         logger,
	}
}

// RecordPayment marks a submission paid and moves its itinerary to
// scheduled, which is what arms the sweep for this pair. The payment
// itself was captured by the external payment collaborator.
func (s *SubmissionService) RecordPayment(ctx context.Context, submissionID, paymentID string) error {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("failed to load submission %s: %w", submissionID, err)
	}

	if submission.PaymentStatus == entity.PaymentPaid {
		return ErrAlreadyPaid
	}

	if err := submission.TransitionPayment(entity.PaymentPaid); err != nil {
		return err
	}
	if err := s.submissionRepo.UpdatePayment(ctx, submission.ID, submission.PaymentStatus, paymentID); err != nil {
		return fmt.Errorf("failed to persist payment for submission %s: %w", submission.ID, err)
	}

	itinerary, err := s.itineraryRepo.FindByID(ctx, submission.ItineraryID)
	if err != nil {
		return fmt.Errorf("failed to load itinerary %s: %w", submission.ItineraryID, err)
	}

	if err := itinerary.TransitionTo(entity.ItineraryScheduled); err != nil {
		return err
	}
	if err := s.itineraryRepo.UpdateStatus(ctx, itinerary.ID, itinerary.Status); err != nil {
		return fmt.Errorf("failed to persist itinerary %s transition: %w", itinerary.ID, err)
	}

	s.logger.Info("Payment recorded, submission armed",
		"submissionId", submission.ID,
		"itineraryId", itinerary.ID,
		"paymentId", paymentID)

	return nil
}

// CompleteItinerary closes the loop after operator review: once a
// submission is completed, its itinerary moves to completed as well.
func (s *SubmissionService) CompleteItinerary(ctx context.Context, submissionID string) error {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("failed to load submission %s: %w", submissionID, err)
	}

	if submission.Status != entity.SubmissionCompleted {
		return ErrSubmissionNotCompleted
	}

	itinerary, err := s.itineraryRepo.FindByID(ctx, submission.ItineraryID)
	if err != nil {
		return fmt.Errorf("failed to load itinerary %s: %w", submission.ItineraryID, err)
	}

	if err := itinerary.TransitionTo(entity.ItineraryCompleted); err != nil {
		return err
	}

	return s.itineraryRepo.UpdateStatus(ctx, itinerary.ID, itinerary.Status)
}
