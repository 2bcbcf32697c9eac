package usecase

import (
	"context"
	"testing"
	"time"

	"arrivalcard-service/internal/domain/entity"
	"arrivalcard-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itineraryEnv struct {
	itineraries *fakeItineraryRepo
	submissions *fakeSubmissionRepo
	email       *fakeNotifier
	service     *ItineraryService
}

func newItineraryEnv(t *testing.T) *itineraryEnv {
	t.Helper()

	env := &itineraryEnv{
		itineraries: newFakeItineraryRepo(),
		submissions: newFakeSubmissionRepo(),
		email:       &fakeNotifier{},
	}

	users := newFakeUserRepo(&entity.User{
		ID:                    1,
		Email:                 "traveler@example.com",
		PreferredNotification: entity.NotifyEmail,
	})

	log := logger.NewNop()
	notifications := NewNotificationService(users, env.submissions, env.email, &fakeNotifier{}, &fakeLogRepo{}, log, testMetrics())
	env.service = NewItineraryService(env.itineraries, env.submissions, notifications, log, 19.99, "USD")

	return env
}

func newUpload(arrival time.Time) *entity.Itinerary {
	return &entity.Itinerary{
		UserID:             1,
		DestinationCountry: "Japan",
		ArrivalDate:        arrival,
		FlightNumber:       "GA 874",
		Purpose:            entity.PurposeTourism,
	}
}

func TestCreateItinerary(t *testing.T) {
	env := newItineraryEnv(t)
	ctx := context.Background()

	arrival := time.Now().Add(120 * time.Hour)
	itinerary := newUpload(arrival)

	submission, err := env.service.CreateItinerary(ctx, itinerary)
	require.NoError(t, err)

	assert.Equal(t, entity.ItineraryPending, itinerary.Status)
	assert.True(t, itinerary.HasWindow())
	assert.Equal(t, arrival.Add(-72*time.Hour), itinerary.SubmissionWindowStart)
	assert.Equal(t, arrival.Add(-2*time.Hour), itinerary.SubmissionWindowEnd)

	assert.Equal(t, itinerary.ID, submission.ItineraryID)
	assert.Equal(t, entity.SubmissionPending, submission.Status)
	assert.Equal(t, entity.PaymentUnpaid, submission.PaymentStatus)
	assert.Equal(t, 19.99, submission.Amount)
	assert.Equal(t, "USD", submission.Currency)

	// Intake sends the receipt message and marks the flag
	require.Equal(t, 1, env.email.count())
	stored, err := env.submissions.FindByID(ctx, submission.ID)
	require.NoError(t, err)
	assert.True(t, stored.NotificationsSent.Confirmation)
}

func TestCreateItineraryRejectsUnknownPurpose(t *testing.T) {
	env := newItineraryEnv(t)

	itinerary := newUpload(time.Now().Add(120 * time.Hour))
	itinerary.Purpose = "vacationing"

	_, err := env.service.CreateItinerary(context.Background(), itinerary)
	require.ErrorIs(t, err, ErrInvalidPurpose)
}

func TestCreateItineraryConfirmationFailureDoesNotAbortIntake(t *testing.T) {
	env := newItineraryEnv(t)
	env.email.err = assert.AnError

	submission, err := env.service.CreateItinerary(context.Background(), newUpload(time.Now().Add(120*time.Hour)))
	require.NoError(t, err)

	stored, findErr := env.submissions.FindByID(context.Background(), submission.ID)
	require.NoError(t, findErr)
	assert.False(t, stored.NotificationsSent.Confirmation)
}

func TestUpdateItineraryPreservesDerivedFields(t *testing.T) {
	env := newItineraryEnv(t)
	ctx := context.Background()

	original := newUpload(time.Now().Add(120 * time.Hour))
	_, err := env.service.CreateItinerary(ctx, original)
	require.NoError(t, err)

	edited := *original
	edited.FlightNumber = "GA 875"
	edited.SubmissionWindowStart = time.Time{}
	edited.ScheduledSubmissionDate = time.Time{}

	require.NoError(t, env.service.UpdateItinerary(ctx, &edited))

	stored, err := env.itineraries.FindByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "GA 875", stored.FlightNumber)
	assert.Equal(t, original.SubmissionWindowStart, stored.SubmissionWindowStart)
	assert.Equal(t, original.ScheduledSubmissionDate, stored.ScheduledSubmissionDate)
}

func TestUpdateItineraryRejectedAfterScheduling(t *testing.T) {
	env := newItineraryEnv(t)
	ctx := context.Background()

	itinerary := newUpload(time.Now().Add(120 * time.Hour))
	_, err := env.service.CreateItinerary(ctx, itinerary)
	require.NoError(t, err)
	require.NoError(t, env.itineraries.UpdateStatus(ctx, itinerary.ID, entity.ItineraryScheduled))

	err = env.service.UpdateItinerary(ctx, itinerary)
	assert.ErrorIs(t, err, ErrItineraryNotEditable)
}

func TestDeleteItinerary(t *testing.T) {
	env := newItineraryEnv(t)
	ctx := context.Background()

	itinerary := newUpload(time.Now().Add(120 * time.Hour))
	submission, err := env.service.CreateItinerary(ctx, itinerary)
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteItinerary(ctx, itinerary.ID))

	_, err = env.itineraries.FindByID(ctx, itinerary.ID)
	assert.Error(t, err)
	_, err = env.submissions.FindByID(ctx, submission.ID)
	assert.Error(t, err)
}

func TestDeleteItineraryRejectedOnceSubmitted(t *testing.T) {
	env := newItineraryEnv(t)
	ctx := context.Background()

	itinerary := newUpload(time.Now().Add(120 * time.Hour))
	_, err := env.service.CreateItinerary(ctx, itinerary)
	require.NoError(t, err)
	require.NoError(t, env.itineraries.UpdateStatus(ctx, itinerary.ID, entity.ItineraryScheduled))
	require.NoError(t, env.itineraries.UpdateStatus(ctx, itinerary.ID, entity.ItinerarySubmitted))

	err = env.service.DeleteItinerary(ctx, itinerary.ID)
	assert.ErrorIs(t, err, ErrItineraryLocked)
}
