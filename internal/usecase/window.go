package usecase

import (
	"time"

	"arrivalcard-service/internal/domain/entity"
)

// Submissions open 72 hours before arrival and close 2 hours before.
const (
	submissionWindowLead  = 72 * time.Hour
	submissionWindowClose = 2 * time.Hour
)

// SubmissionWindow is the interval before arrival during which filing
// is permitted, plus the single optimal instant to file
type SubmissionWindow struct {
	Start       time.Time
	End         time.Time
	ScheduledAt time.Time
}

// ComputeWindow derives the submission window from an arrival
// timestamp. The scheduled instant is the midpoint of the window. The
// calculator never rejects input: for arrivals less than 74 hours away
// (or in the past) it still produces a window, and eligibility is the
// dispatcher's concern.
func ComputeWindow(arrival time.Time) SubmissionWindow {
	start := arrival.Add(-submissionWindowLead)
	end := arrival.Add(-submissionWindowClose)

	return SubmissionWindow{
		Start:       start,
		End:         end,
		ScheduledAt: start.Add(end.Sub(start) / 2),
	}
}

// ApplyWindow sets the window fields on an itinerary at creation time.
// It is idempotent: once the fields are populated they are never
// recomputed.
func ApplyWindow(itinerary *entity.Itinerary) {
	if itinerary.ArrivalDate.IsZero() || itinerary.HasWindow() {
		return
	}

	window := ComputeWindow(itinerary.ArrivalDate)
	itinerary.SubmissionWindowStart = window.Start
	itinerary.SubmissionWindowEnd = window.End
	itinerary.ScheduledSubmissionDate = window.ScheduledAt
}
