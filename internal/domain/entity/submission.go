package entity

import (
	"fmt"
	"time"
)

// SubmissionStatus is the lifecycle state of a submission
type SubmissionStatus string

const (
	SubmissionPending    SubmissionStatus = "pending"
	SubmissionProcessing SubmissionStatus = "processing"
	SubmissionCompleted  SubmissionStatus = "completed"
	SubmissionFailed     SubmissionStatus = "failed"
)

// completed and failed are terminal: no automatic retry once failed
var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	SubmissionPending:    {SubmissionProcessing},
	SubmissionProcessing: {SubmissionCompleted, SubmissionFailed},
}

// CanTransitionTo reports whether the edge from s to next is allowed
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	for _, allowed := range submissionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus is the payment state of a submission, owned by the
// external payment collaborator
type PaymentStatus string

const (
	PaymentUnpaid     PaymentStatus = "unpaid"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentRefunded   PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:     {PaymentProcessing, PaymentPaid},
	PaymentProcessing: {PaymentPaid},
	PaymentPaid:       {PaymentRefunded},
}

// CanTransitionTo reports whether the edge from s to next is allowed
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NotificationFlags tracks which lifecycle notifications have been
// delivered for a submission. Each flag is set exactly once, only after
// a successful send, and is checked before every send attempt.
type NotificationFlags struct {
	Confirmation bool `bson:"confirmation"`
	Reminder     bool `bson:"reminder"`
	Completion   bool `bson:"completion"`
}

// Submission is the payment-gated unit of work representing one filing
// attempt for an itinerary
type Submission struct {
	ID                 string            `bson:"_id,omitempty"`
	ItineraryID        string            `bson:"itineraryId"`
	UserID             uint              `bson:"userId"`
	Status             SubmissionStatus  `bson:"status"`
	SubmissionDate     *time.Time        `bson:"submissionDate,omitempty"`
	ConfirmationNumber string            `bson:"confirmationNumber,omitempty"`
	ArrivalCardPDF     string            `bson:"arrivalCardPdf,omitempty"`
	PaymentStatus      PaymentStatus     `bson:"paymentStatus"`
	PaymentID          string            `bson:"paymentId,omitempty"`
	Amount             float64           `bson:"amount"`
	Currency           string            `bson:"currency"`
	NotificationsSent  NotificationFlags `bson:"notificationsSent"`
	Notes              string            `bson:"notes,omitempty"`
	CreatedAt          time.Time         `bson:"createdAt"`
	UpdatedAt          time.Time         `bson:"updatedAt"`
}

// TransitionTo moves the submission to the next status, failing loudly
// on any edge not in the transition table
func (s *Submission) TransitionTo(next SubmissionStatus) error {
	if !s.Status.CanTransitionTo(next) {
		return fmt.Errorf("submission %s: %s -> %s: %w", s.ID, s.Status, next, ErrInvalidTransition)
	}
	s.Status = next
	return nil
}

// TransitionPayment moves the payment status, failing loudly on any
// edge not in the transition table
func (s *Submission) TransitionPayment(next PaymentStatus) error {
	if !s.PaymentStatus.CanTransitionTo(next) {
		return fmt.Errorf("submission %s: payment %s -> %s: %w", s.ID, s.PaymentStatus, next, ErrInvalidTransition)
	}
	s.PaymentStatus = next
	return nil
}
