package repository

import (
	"context"
	"time"

	"arrivalcard-service/internal/domain/entity"
	"arrivalcard-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormUserRepository implements the read-only UserRepository interface
// against the user directory database
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) repository.UserRepository {
	return &GormUserRepository{
		db: db,
	}
}

// Users GORM model for database mapping
type Users struct {
	ID                    uint   `gorm:"primaryKey"`
	Name                  string `gorm:"column:name"`
	Email                 string `gorm:"column:email;unique"`
	Phone                 string `gorm:"column:phone"`
	Nationality           string `gorm:"column:nationality"`
	PassportNumber        string `gorm:"column:passport_number"`
	PreferredNotification string `gorm:"column:preferred_notification"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName overrides the default table name
func (Users) TableName() string {
	return "users"
}

// GetByID finds a user by id
func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var user Users
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)

	if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.User{
		ID:                    user.ID,
		Name:                  user.Name,
		Email:                 user.Email,
		Phone:                 user.Phone,
		Nationality:           user.Nationality,
		PassportNumber:        user.PassportNumber,
		PreferredNotification: entity.NotificationPreference(user.PreferredNotification),
		CreatedAt:             user.CreatedAt,
		UpdatedAt:             user.UpdatedAt,
	}, nil
}
