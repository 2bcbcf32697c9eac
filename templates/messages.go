package templates

import (
	"fmt"
	"time"
)

const (
	completionSubject   = "Arrival Card Submission Completed"
	reminderSubject     = "Arrival Card Submission Reminder"
	confirmationSubject = "Arrival Card Submission Received"
)

// Completion builds the message sent after a successful filing
func Completion(destinationCountry, confirmationNumber string) (subject, body string) {
	body = fmt.Sprintf(
		"Your arrival card for %s has been successfully submitted. Confirmation number: %s",
		destinationCountry, confirmationNumber)
	return completionSubject, body
}

// Reminder builds the pre-deadline payment reminder
func Reminder(destinationCountry string, windowEnd time.Time) (subject, body string) {
	body = fmt.Sprintf(
		"The submission window for your %s arrival card closes at %s. Complete your payment so we can file it in time.",
		destinationCountry, windowEnd.UTC().Format("2006-01-02 15:04 MST"))
	return reminderSubject, body
}

// Confirmation builds the message sent when an itinerary is received
func Confirmation(destinationCountry string, scheduledAt time.Time) (subject, body string) {
	body = fmt.Sprintf(
		"We received your itinerary for %s. Your arrival card is scheduled for submission at %s.",
		destinationCountry, scheduledAt.UTC().Format("2006-01-02 15:04 MST"))
	return confirmationSubject, body
}
