package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arrivalcard-service/internal/domain/entity"
	"arrivalcard-service/internal/domain/repository"
	"arrivalcard-service/pkg/logger"
	"arrivalcard-service/pkg/metrics"
)

// SubmissionProcessor drives one paid submission through the filing
// state machine: processing -> completed on success, processing ->
// failed on error. Both outcomes are terminal; a failed submission is
// never retried automatically.
type SubmissionProcessor struct {
	filing         repository.FilingClient
	submissionRepo repository.SubmissionRepository
	notifications  *NotificationService
	logger         logger.Logger
	metrics        *metrics.Metrics
	filingTimeout  time.Duration
}

// NewSubmissionProcessor creates a new submission processor
func NewSubmissionProcessor(
	filing repository.FilingClient,
	submissionRepo repository.SubmissionRepository,
	notifications *NotificationService,
	logger logger.Logger,
	metrics *metrics.Metrics,
	filingTimeout time.Duration,
) *SubmissionProcessor {
	return &SubmissionProcessor{
		filing:         filing,
		submissionRepo: submissionRepo,
		notifications:  notifications,
		logger:         logger,
		metrics:        metrics,
		filingTimeout:  filingTimeout,
	}
}

// Process performs the external filing action for one itinerary and
// records the outcome. The caller has already moved the submission to
// processing and the itinerary to submitted.
func (p *SubmissionProcessor) Process(ctx context.Context, itinerary *entity.Itinerary, submission *entity.Submission) error {
	p.logger.Info("Processing submission",
		"submissionId", submission.ID,
		"itineraryId", itinerary.ID)

	filingCtx, cancel := context.WithTimeout(ctx, p.filingTimeout)
	defer cancel()

	start := time.Now()
	token, err := p.filing.Submit(filingCtx, itinerary)
	p.metrics.FilingDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return p.recordFailure(ctx, submission, err)
	}

	if err := submission.TransitionTo(entity.SubmissionCompleted); err != nil {
		return err
	}

	now := time.Now()
	submission.ConfirmationNumber = fmt.Sprintf("ARR-%s", token)
	submission.SubmissionDate = &now
	submission.Notes = "Submission processed successfully"

	if err := p.submissionRepo.MarkCompleted(ctx, submission.ID, submission.ConfirmationNumber, submission.Notes, now); err != nil {
		return fmt.Errorf("failed to persist completed submission %s: %w", submission.ID, err)
	}

	p.metrics.SubmissionsCompleted.Inc()
	p.logger.Info("Submission completed",
		"submissionId", submission.ID,
		"confirmationNumber", submission.ConfirmationNumber)

	// A send failure must not roll back the completed submission; the
	// flag stays false so a later pass can retry the send.
	if err := p.notifications.SendCompletion(ctx, submission, itinerary); err != nil {
		p.logger.Error("Completion notification failed",
			"submissionId", submission.ID,
			"error", err)
	}

	return nil
}

// recordFailure moves the submission to its failed terminal state with
// a human-readable note. The itinerary stays at submitted: there is no
// itinerary-level failure edge from this path.
func (p *SubmissionProcessor) recordFailure(ctx context.Context, submission *entity.Submission, cause error) error {
	notes := fmt.Sprintf("Error processing submission: %v", cause)
	if errors.Is(cause, context.DeadlineExceeded) {
		notes = fmt.Sprintf("Error processing submission: filing timed out after %s", p.filingTimeout)
	}

	if err := submission.TransitionTo(entity.SubmissionFailed); err != nil {
		return err
	}
	submission.Notes = notes

	if err := p.submissionRepo.MarkFailed(ctx, submission.ID, notes); err != nil {
		return fmt.Errorf("failed to persist failed submission %s: %w", submission.ID, err)
	}

	p.metrics.SubmissionsFailed.Inc()
	p.logger.Error("Submission failed",
		"submissionId", submission.ID,
		"error", cause)

	return fmt.Errorf("filing failed for submission %s: %w", submission.ID, cause)
}
