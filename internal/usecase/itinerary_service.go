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
	// ErrItineraryLocked is returned when an itinerary can no longer be
	// changed because filing has started or finished.
	ErrItineraryLocked = errors.New("itinerary can no longer be changed after submission")

	// ErrItineraryNotEditable is returned when profile fields are
	// changed after the itinerary left pending.
	ErrItineraryNotEditable = errors.New("itinerary can only be edited while pending")

	// ErrInvalidPurpose is returned for an unknown travel purpose.
	ErrInvalidPurpose = errors.New("invalid travel purpose")
)

// ItineraryService handles itinerary intake and owner mutations
type ItineraryService struct {
	itineraryRepo  repository.ItineraryRepository
	submissionRepo repository.SubmissionRepository
	notifications  *NotificationService
	logger         logger.Logger
	feeAmount      float64
	feeCurrency    string
}

// NewItineraryService creates a new itinerary service
func NewItineraryService(
	itineraryRepo repository.ItineraryRepository,
	submissionRepo repository.SubmissionRepository,
	notifications *NotificationService,
	logger logger.Logger,
	feeAmount float64,
	feeCurrency string,
) *ItineraryService {
	return &ItineraryService{
		itineraryRepo:  itineraryRepo,
		submissionRepo: submissionRepo,
		notifications:  notifications,
		logger:         logger,
		feeAmount:      feeAmount,
		feeCurrency:    feeCurrency,
	}
}

// CreateItinerary persists an uploaded itinerary together with its
// companion submission. The submission window is derived exactly once,
// here; it is never recomputed afterwards.
func (s *ItineraryService) CreateItinerary(ctx context.Context, itinerary *entity.Itinerary) (*entity.Submission, error) {
	if !itinerary.Purpose.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPurpose, itinerary.Purpose)
	}

	if itinerary.Status == "" {
		itinerary.Status = entity.ItineraryPending
	}
	ApplyWindow(itinerary)

	if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
		return nil, fmt.Errorf("failed to save itinerary: %w", err)
	}

	submission := &entity.Submission{
		ItineraryID:   itinerary.ID,
		UserID:        itinerary.UserID,
		Status:        entity.SubmissionPending,
		PaymentStatus: entity.PaymentUnpaid,
		Amount:        s.feeAmount,
		Currency:      s.feeCurrency,
	}

	if err := s.submissionRepo.Save(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	s.logger.Info("Itinerary created",
		"itineraryId", itinerary.ID,
		"submissionId", submission.ID,
		"scheduledSubmissionDate", itinerary.ScheduledSubmissionDate)

	// Intake is complete even if the receipt message cannot be sent;
	// the unset flag lets a later pass retry.
	if err := s.notifications.SendConfirmation(ctx, submission, itinerary); err != nil {
		s.logger.Error("Confirmation notification failed",
			"submissionId", submission.ID,
			"error", err)
	}

	return submission, nil
}

// UpdateItinerary applies owner edits to the profile fields. Edits are
// only allowed while the itinerary is pending.
func (s *ItineraryService) UpdateItinerary(ctx context.Context, itinerary *entity.Itinerary) error {
	existing, err := s.itineraryRepo.FindByID(ctx, itinerary.ID)
	if err != nil {
		return fmt.Errorf("failed to load itinerary %s: %w", itinerary.ID, err)
	}

	if existing.Status != entity.ItineraryPending {
		return ErrItineraryNotEditable
	}

	// The derived window fields are set once at creation and survive
	// owner edits untouched.
	itinerary.Status = existing.Status
	itinerary.SubmissionWindowStart = existing.SubmissionWindowStart
	itinerary.SubmissionWindowEnd = existing.SubmissionWindowEnd
	itinerary.ScheduledSubmissionDate = existing.ScheduledSubmissionDate
	itinerary.CreatedAt = existing.CreatedAt

	return s.itineraryRepo.Save(ctx, itinerary)
}

// DeleteItinerary removes an itinerary and its submissions. Itineraries
// are never deleted once submitted or completed.
func (s *ItineraryService) DeleteItinerary(ctx context.Context, id string) error {
	itinerary, err := s.itineraryRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load itinerary %s: %w", id, err)
	}

	if itinerary.Locked() {
		return ErrItineraryLocked
	}

	if err := s.submissionRepo.DeleteByItinerary(ctx, id); err != nil {
		return fmt.Errorf("failed to delete submissions for itinerary %s: %w", id, err)
	}

	return s.itineraryRepo.Delete(ctx, id)
}
