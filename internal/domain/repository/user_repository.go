package repository

import (
	"context"

	"arrivalcard-service/internal/domain/entity"
)

// UserRepository defines the read-only interface to the user directory
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.User, error)
}
