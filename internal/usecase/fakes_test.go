package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"arrivalcard-service/internal/domain/entity"
	"arrivalcard-service/pkg/metrics"
)

// Prometheus collectors register globally, so every test in the package
// shares one Metrics instance.
var (
	metricsOnce   sync.Once
	sharedMetrics *metrics.Metrics
)

func testMetrics() *metrics.Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = metrics.NewMetrics("arrivalcard_test")
	})
	return sharedMetrics
}

// fakeItineraryRepo is an in-memory ItineraryRepository. Find methods
// return copies so that only explicit persistence calls change the
// stored state, the way a real store behaves.
type fakeItineraryRepo struct {
	mu    sync.Mutex
	items map[string]entity.Itinerary
	seq   int
}

func newFakeItineraryRepo() *fakeItineraryRepo {
	return &fakeItineraryRepo{items: make(map[string]entity.Itinerary)}
}

func (r *fakeItineraryRepo) Save(_ context.Context, itinerary *entity.Itinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if itinerary.ID == "" {
		r.seq++
		itinerary.ID = fmt.Sprintf("it-%d", r.seq)
	}
	r.items[itinerary.ID] = *itinerary
	return nil
}

func (r *fakeItineraryRepo) FindByID(_ context.Context, id string) (*entity.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("no itinerary found with id: %s", id)
	}
	return &item, nil
}

func (r *fakeItineraryRepo) FindByUser(_ context.Context, userID uint) ([]*entity.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Itinerary
	for id := range r.items {
		item := r.items[id]
		if item.UserID == userID {
			out = append(out, &item)
		}
	}
	return out, nil
}

func (r *fakeItineraryRepo) FindDue(_ context.Context, now time.Time) ([]*entity.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Itinerary
	for id := range r.items {
		item := r.items[id]
		if item.Status == entity.ItineraryScheduled && !item.ScheduledSubmissionDate.After(now) {
			out = append(out, &item)
		}
	}
	return out, nil
}

func (r *fakeItineraryRepo) FindWindowClosing(_ context.Context, status entity.ItineraryStatus, from, until time.Time) ([]*entity.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Itinerary
	for id := range r.items {
		item := r.items[id]
		if item.Status == status && !item.SubmissionWindowEnd.Before(from) && !item.SubmissionWindowEnd.After(until) {
			out = append(out, &item)
		}
	}
	return out, nil
}

func (r *fakeItineraryRepo) UpdateStatus(_ context.Context, id string, status entity.ItineraryStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("no itinerary found with id: %s", id)
	}
	item.Status = status
	r.items[id] = item
	return nil
}

func (r *fakeItineraryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("no itinerary found with id: %s", id)
	}
	delete(r.items, id)
	return nil
}

// fakeSubmissionRepo is an in-memory SubmissionRepository
type fakeSubmissionRepo struct {
	mu    sync.Mutex
	items map[string]entity.Submission
	seq   int

	failUpdateStatus error
	failSetFlag      error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{items: make(map[string]entity.Submission)}
}

func (r *fakeSubmissionRepo) Save(_ context.Context, submission *entity.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if submission.ID == "" {
		r.seq++
		submission.ID = fmt.Sprintf("sub-%d", r.seq)
	}
	if submission.Status == "" {
		submission.Status = entity.SubmissionPending
	}
	if submission.PaymentStatus == "" {
		submission.PaymentStatus = entity.PaymentUnpaid
	}
	r.items[submission.ID] = *submission
	return nil
}

func (r *fakeSubmissionRepo) FindByID(_ context.Context, id string) (*entity.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("no submission found with id: %s", id)
	}
	return &item, nil
}

func (r *fakeSubmissionRepo) FindByItinerary(_ context.Context, itineraryID string) (*entity.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.items {
		item := r.items[id]
		if item.ItineraryID == itineraryID {
			return &item, nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepo) FindPaidByItinerary(_ context.Context, itineraryID string) (*entity.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.items {
		item := r.items[id]
		if item.ItineraryID == itineraryID && item.PaymentStatus == entity.PaymentPaid {
			return &item, nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepo) UpdateStatus(_ context.Context, id string, status entity.SubmissionStatus) error {
	if r.failUpdateStatus != nil {
		return r.failUpdateStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("no submission found with id: %s", id)
	}
	item.Status = status
	r.items[id] = item
	return nil
}

func (r *fakeSubmissionRepo) UpdatePayment(_ context.Context, id string, status entity.PaymentStatus, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("no submission found with id: %s", id)
	}
	item.PaymentStatus = status
	if paymentID != "" {
		item.PaymentID = paymentID
	}
	r.items[id] = item
	return nil
}

func (r *fakeSubmissionRepo) MarkCompleted(_ context.Context, id, confirmationNumber, notes string, submittedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("no submission found with id: %s", id)
	}
	item.Status = entity.SubmissionCompleted
	item.ConfirmationNumber = confirmationNumber
	item.Notes = notes
	item.SubmissionDate = &submittedAt
	r.items[id] = item
	return nil
}

func (r *fakeSubmissionRepo) MarkFailed(_ context.Context, id, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("no submission found with id: %s", id)
	}
	item.Status = entity.SubmissionFailed
	item.Notes = notes
	r.items[id] = item
	return nil
}

func (r *fakeSubmissionRepo) SetNotificationFlag(_ context.Context, id string, event entity.NotificationEvent) error {
	if r.failSetFlag != nil {
		return r.failSetFlag
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("no submission found with id: %s", id)
	}
	switch event {
	case entity.EventConfirmation:
		item.NotificationsSent.Confirmation = true
	case entity.EventReminder:
		item.NotificationsSent.Reminder = true
	case entity.EventCompletion:
		item.NotificationsSent.Completion = true
	}
	r.items[id] = item
	return nil
}

func (r *fakeSubmissionRepo) DeleteByItinerary(_ context.Context, itineraryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.items {
		if r.items[id].ItineraryID == itineraryID {
			delete(r.items, id)
		}
	}
	return nil
}

// fakeUserRepo is an in-memory read-only user directory
type fakeUserRepo struct {
	users map[uint]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*entity.User)}
	for _, user := range users {
		r.users[user.ID] = user
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("no user found with id: %d", id)
	}
	return user, nil
}

type sentMessage struct {
	Recipient string
	Subject   string
	Body      string
}

// fakeNotifier records every send on one channel
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, recipient, subject, body string) error {
	if n.err != nil {
		return n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// fakeLogRepo records notification audit entries
type fakeLogRepo struct {
	mu      sync.Mutex
	entries []entity.NotificationLog
}

func (r *fakeLogRepo) Create(_ context.Context, entry *entity.NotificationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

// fakeFiling simulates the external filing action, with per-itinerary
// failure injection
type fakeFiling struct {
	mu      sync.Mutex
	token   string
	delay   time.Duration
	failFor map[string]error
	calls   []string
}

func (f *fakeFiling) Submit(ctx context.Context, itinerary *entity.Itinerary) (string, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, itinerary.ID)
	f.mu.Unlock()

	if err, ok := f.failFor[itinerary.ID]; ok {
		return "", err
	}
	if f.token == "" {
		return "TOKEN", nil
	}
	return f.token, nil
}
