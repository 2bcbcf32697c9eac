package usecase

import (
	"context"
	"testing"

	"arrivalcard-service/internal/domain/entity"
	"arrivalcard-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationEnv struct {
	submissions *fakeSubmissionRepo
	email       *fakeNotifier
	whatsapp    *fakeNotifier
	logs        *fakeLogRepo
	service     *NotificationService
}

func newNotificationEnv(t *testing.T, user *entity.User) *notificationEnv {
	t.Helper()

	env := &notificationEnv{
		submissions: newFakeSubmissionRepo(),
		email:       &fakeNotifier{},
		whatsapp:    &fakeNotifier{},
		logs:        &fakeLogRepo{},
	}
	env.service = NewNotificationService(
		newFakeUserRepo(user), env.submissions, env.email, env.whatsapp, env.logs,
		logger.NewNop(), testMetrics())
	return env
}

func emailUser() *entity.User {
	return &entity.User{
		ID:                    1,
		Email:                 "traveler@example.com",
		Phone:                 "+6281234567890",
		PreferredNotification: entity.NotifyEmail,
	}
}

func (env *notificationEnv) seedSubmission(t *testing.T, flags entity.NotificationFlags) (*entity.Itinerary, *entity.Submission) {
	t.Helper()

	itinerary := &entity.Itinerary{
		ID:                 "it-1",
		UserID:             1,
		DestinationCountry: "Japan",
	}
	submission := &entity.Submission{
		ItineraryID:        itinerary.ID,
		UserID:             1,
		ConfirmationNumber: "ARR-TEST-001",
		NotificationsSent:  flags,
	}
	require.NoError(t, env.submissions.Save(context.Background(), submission))
	return itinerary, submission
}

func TestSendCompletionSkipsWhenFlagSet(t *testing.T) {
	env := newNotificationEnv(t, emailUser())
	itinerary, submission := env.seedSubmission(t, entity.NotificationFlags{Completion: true})

	require.NoError(t, env.service.SendCompletion(context.Background(), submission, itinerary))
	assert.Zero(t, env.email.count())
	assert.Zero(t, env.whatsapp.count())
}

func TestSendCompletionBothChannels(t *testing.T) {
	user := emailUser()
	user.PreferredNotification = entity.NotifyBoth
	env := newNotificationEnv(t, user)
	itinerary, submission := env.seedSubmission(t, entity.NotificationFlags{})

	require.NoError(t, env.service.SendCompletion(context.Background(), submission, itinerary))

	require.Equal(t, 1, env.email.count())
	require.Equal(t, 1, env.whatsapp.count())
	assert.Equal(t, "traveler@example.com", env.email.sent[0].Recipient)
	assert.Equal(t, "+6281234567890", env.whatsapp.sent[0].Recipient)

	// One flag covers both channels
	stored, err := env.submissions.FindByID(context.Background(), submission.ID)
	require.NoError(t, err)
	assert.True(t, stored.NotificationsSent.Completion)
	assert.Len(t, env.logs.entries, 2)
}

func TestSendCompletionChannelFailureLeavesFlagUnset(t *testing.T) {
	user := emailUser()
	user.PreferredNotification = entity.NotifyBoth
	env := newNotificationEnv(t, user)
	env.whatsapp.err = assert.AnError
	itinerary, submission := env.seedSubmission(t, entity.NotificationFlags{})

	err := env.service.SendCompletion(context.Background(), submission, itinerary)
	require.Error(t, err)

	// The healthy channel still delivered, but the flag stays unset so
	// a later pass can retry
	assert.Equal(t, 1, env.email.count())
	stored, findErr := env.submissions.FindByID(context.Background(), submission.ID)
	require.NoError(t, findErr)
	assert.False(t, stored.NotificationsSent.Completion)
}

func TestSendCompletionMissingContact(t *testing.T) {
	user := emailUser()
	user.PreferredNotification = entity.NotifyWhatsApp
	user.Phone = ""
	env := newNotificationEnv(t, user)
	itinerary, submission := env.seedSubmission(t, entity.NotificationFlags{})

	err := env.service.SendCompletion(context.Background(), submission, itinerary)
	require.Error(t, err)
	assert.Zero(t, env.whatsapp.count())
}

func TestSendReminderSetsOnlyReminderFlag(t *testing.T) {
	env := newNotificationEnv(t, emailUser())
	itinerary, submission := env.seedSubmission(t, entity.NotificationFlags{})

	require.NoError(t, env.service.SendReminder(context.Background(), submission, itinerary))

	stored, err := env.submissions.FindByID(context.Background(), submission.ID)
	require.NoError(t, err)
	assert.True(t, stored.NotificationsSent.Reminder)
	assert.False(t, stored.NotificationsSent.Confirmation)
	assert.False(t, stored.NotificationsSent.Completion)
}

func TestSendConfirmationFlagPersistFailure(t *testing.T) {
	env := newNotificationEnv(t, emailUser())
	env.submissions.failSetFlag = assert.AnError
	itinerary, submission := env.seedSubmission(t, entity.NotificationFlags{})

	err := env.service.SendConfirmation(context.Background(), submission, itinerary)
	require.Error(t, err)

	// The message went out; only the bookkeeping failed
	assert.Equal(t, 1, env.email.count())
	stored, findErr := env.submissions.FindByID(context.Background(), submission.ID)
	require.NoError(t, findErr)
	assert.False(t, stored.NotificationsSent.Confirmation)
}
