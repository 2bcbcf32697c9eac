package repository

import (
	"context"
	"time"

	"arrivalcard-service/internal/domain/entity"
	"arrivalcard-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormNotificationLogRepository implements the NotificationLogRepository
// interface
type GormNotificationLogRepository struct {
	db *gorm.DB
}

// NewGormNotificationLogRepository creates a new GORM notification log
// repository
func NewGormNotificationLogRepository(db *gorm.DB) repository.NotificationLogRepository {
	return &GormNotificationLogRepository{
		db: db,
	}
}

// NotificationLogs GORM model for database mapping
type NotificationLogs struct {
	gorm.Model
	SubmissionID string    `gorm:"column:submission_id;index"`
	UserID       uint      `gorm:"column:user_id"`
	Event        string    `gorm:"column:event"`
	Channel      string    `gorm:"column:channel"`
	Recipient    string    `gorm:"column:recipient"`
	Message      string    `gorm:"column:message"`
	SentAt       time.Time `gorm:"column:sent_at"`
}

// TableName overrides the default table name
func (NotificationLogs) TableName() string {
	return "notification_logs"
}

// Create inserts a new notification log entry
func (r *GormNotificationLogRepository) Create(ctx context.Context, entry *entity.NotificationLog) error {
	model := NotificationLogs{
		SubmissionID: entry.SubmissionID,
		UserID:       entry.UserID,
		Event:        string(entry.Event),
		Channel:      string(entry.Channel),
		Recipient:    entry.Recipient,
		Message:      entry.Message,
		SentAt:       entry.SentAt,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	entry.ID = model.ID
	return nil
}
