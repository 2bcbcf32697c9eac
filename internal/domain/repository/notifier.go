package repository

import (
	"context"

	"arrivalcard-service/internal/domain/entity"
)

// Notifier delivers one message over a single channel. The transport has
// no deduplication of its own; callers guard re-sends with the persisted
// notification flags.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// NotificationLogRepository records delivered messages
type NotificationLogRepository interface {
	Create(ctx context.Context, entry *entity.NotificationLog) error
}
