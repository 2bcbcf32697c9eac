package entity

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when a status change is not in the
// transition table for that entity.
var ErrInvalidTransition = errors.New("invalid status transition")

// TravelPurpose is the declared reason for the trip
type TravelPurpose string

const (
	PurposeTourism   TravelPurpose = "tourism"
	PurposeBusiness  TravelPurpose = "business"
	PurposeEducation TravelPurpose = "education"
	PurposeOther     TravelPurpose = "other"
)

// Valid reports whether the purpose is one of the accepted values
func (p TravelPurpose) Valid() bool {
	switch p {
	case PurposeTourism, PurposeBusiness, PurposeEducation, PurposeOther:
		return true
	}
	return false
}

// ItineraryStatus is the lifecycle state of an itinerary
type ItineraryStatus string

const (
	ItineraryPending   ItineraryStatus = "pending"
	ItineraryScheduled ItineraryStatus = "scheduled"
	ItinerarySubmitted ItineraryStatus = "submitted"
	ItineraryCompleted ItineraryStatus = "completed"
	ItineraryFailed    ItineraryStatus = "failed"
)

// itineraryTransitions is the closed set of allowed status edges.
// There is deliberately no edge from scheduled to failed: a processing
// failure is recorded on the submission, not on the itinerary.
var itineraryTransitions = map[ItineraryStatus][]ItineraryStatus{
	ItineraryPending:   {ItineraryScheduled},
	ItineraryScheduled: {ItinerarySubmitted},
	ItinerarySubmitted: {ItineraryCompleted, ItineraryFailed},
}

// CanTransitionTo reports whether the edge from s to next is allowed
func (s ItineraryStatus) CanTransitionTo(next ItineraryStatus) bool {
	for _, allowed := range itineraryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Itinerary represents a traveler's trip record awaiting or having
// completed an arrival-card submission
type Itinerary struct {
	ID                      string          `bson:"_id,omitempty"`
	UserID                  uint            `bson:"userId"`
	DestinationCountry      string          `bson:"destinationCountry"`
	ArrivalDate             time.Time       `bson:"arrivalDate"`
	DepartureDate           time.Time       `bson:"departureDate"`
	FlightNumber            string          `bson:"flightNumber"`
	Airline                 string          `bson:"airline"`
	AccommodationAddress    string          `bson:"accommodationAddress"`
	AccommodationPhone      string          `bson:"accommodationPhone,omitempty"`
	Purpose                 TravelPurpose   `bson:"purpose"`
	OriginalFile            string          `bson:"originalFile"`
	Status                  ItineraryStatus `bson:"status"`
	SubmissionWindowStart   time.Time       `bson:"submissionWindowStart,omitempty"`
	SubmissionWindowEnd     time.Time       `bson:"submissionWindowEnd,omitempty"`
	ScheduledSubmissionDate time.Time       `bson:"scheduledSubmissionDate,omitempty"`
	CreatedAt               time.Time       `bson:"createdAt"`
	UpdatedAt               time.Time       `bson:"updatedAt"`
}

// TransitionTo moves the itinerary to the next status, failing loudly
// on any edge not in the transition table
func (i *Itinerary) TransitionTo(next ItineraryStatus) error {
	if !i.Status.CanTransitionTo(next) {
		return fmt.Errorf("itinerary %s: %s -> %s: %w", i.ID, i.Status, next, ErrInvalidTransition)
	}
	i.Status = next
	return nil
}

// HasWindow reports whether the submission window fields were already
// populated at creation
func (i *Itinerary) HasWindow() bool {
	return !i.SubmissionWindowStart.IsZero() && !i.SubmissionWindowEnd.IsZero()
}

// Locked reports whether the itinerary can no longer be changed or
// deleted by its owner
func (i *Itinerary) Locked() bool {
	return i.Status == ItinerarySubmitted || i.Status == ItineraryCompleted
}
