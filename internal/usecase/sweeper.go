package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"arrivalcard-service/internal/domain/entity"
	"arrivalcard-service/internal/domain/repository"
	"arrivalcard-service/pkg/logger"
	"arrivalcard-service/pkg/metrics"

	"go.uber.org/multierr"
)

// SweepDispatcher discovers due itineraries and hands each eligible
// (itinerary, submission) pair to the processor. Pairs are independent
// units of work: they run on a bounded worker pool and a failure in one
// never aborts the rest of the sweep.
type SweepDispatcher struct {
	itineraryRepo  repository.ItineraryRepository
	submissionRepo repository.SubmissionRepository
	processor      *SubmissionProcessor
	notifications  *NotificationService
	logger         logger.Logger
	metrics        *metrics.Metrics
	workers        int
	reminderLead   time.Duration
}

// NewSweepDispatcher creates a new sweep dispatcher
func NewSweepDispatcher(
	itineraryRepo repository.ItineraryRepository,
	submissionRepo repository.SubmissionRepository,
	processor *SubmissionProcessor,
	notifications *NotificationService,
	logger logger.Logger,
	metrics *metrics.Metrics,
	workers int,
	reminderLead time.Duration,
) *SweepDispatcher {
	if workers < 1 {
		workers = 1
	}
	return &SweepDispatcher{
		itineraryRepo:  itineraryRepo,
		submissionRepo: submissionRepo,
		processor:      processor,
		notifications:  notifications,
		logger:         logger,
		metrics:        metrics,
		workers:        workers,
		reminderLead:   reminderLead,
	}
}

// RunSweep executes one due-work discovery-and-processing cycle. All
// per-pair errors are collected and surfaced together after the sweep
// completes.
func (d *SweepDispatcher) RunSweep(ctx context.Context) error {
	now := time.Now()

	due, err := d.itineraryRepo.FindDue(ctx, now)
	if err != nil {
		d.metrics.ErrorsCount.WithLabelValues("find_due").Inc()
		return fmt.Errorf("failed to query due itineraries: %w", err)
	}

	defer d.metrics.SweepsTotal.Inc()

	if len(due) == 0 {
		d.logger.Debug("No due itineraries")
		return nil
	}

	d.logger.Info("Found due itineraries", "count", len(due))
	d.metrics.ItinerariesDue.Add(float64(len(due)))

	sem := make(chan struct{}, d.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs error

	for _, itinerary := range due {
		wg.Add(1)
		sem <- struct{}{}

		go func(itinerary *entity.Itinerary) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := d.processOne(ctx, itinerary); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}(itinerary)
	}

	wg.Wait()
	return errs
}

// processOne advances a single (itinerary, submission) pair. An
// itinerary without a paid submission is skipped, stays scheduled, and
// is re-considered on the next sweep; that is the retry path for
// payment not yet captured, not an error.
func (d *SweepDispatcher) processOne(ctx context.Context, itinerary *entity.Itinerary) error {
	submission, err := d.submissionRepo.FindPaidByItinerary(ctx, itinerary.ID)
	if err != nil {
		return fmt.Errorf("failed to look up submission for itinerary %s: %w", itinerary.ID, err)
	}

	if submission == nil {
		d.logger.Info("No paid submission found for itinerary, skipping", "itineraryId", itinerary.ID)
		return nil
	}

	if err := submission.TransitionTo(entity.SubmissionProcessing); err != nil {
		return err
	}
	if err := d.submissionRepo.UpdateStatus(ctx, submission.ID, submission.Status); err != nil {
		return fmt.Errorf("failed to persist submission %s transition: %w", submission.ID, err)
	}

	if err := itinerary.TransitionTo(entity.ItinerarySubmitted); err != nil {
		return err
	}
	if err := d.itineraryRepo.UpdateStatus(ctx, itinerary.ID, itinerary.Status); err != nil {
		return fmt.Errorf("failed to persist itinerary %s transition: %w", itinerary.ID, err)
	}

	return d.processor.Process(ctx, itinerary, submission)
}

// RunReminderSweep finds itineraries whose submission window closes
// within the reminder lead and whose submission is still unpaid, and
// sends the reminder notification under its idempotency flag.
func (d *SweepDispatcher) RunReminderSweep(ctx context.Context) error {
	now := time.Now()

	closing, err := d.itineraryRepo.FindWindowClosing(ctx, entity.ItineraryPending, now, now.Add(d.reminderLead))
	if err != nil {
		d.metrics.ErrorsCount.WithLabelValues("find_window_closing").Inc()
		return fmt.Errorf("failed to query closing windows: %w", err)
	}

	var errs error
	for _, itinerary := range closing {
		submission, err := d.submissionRepo.FindByItinerary(ctx, itinerary.ID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to look up submission for itinerary %s: %w", itinerary.ID, err))
			continue
		}

		if submission == nil || submission.PaymentStatus == entity.PaymentPaid {
			continue
		}

		if err := d.notifications.SendReminder(ctx, submission, itinerary); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
