package repository

import (
	"context"
	"time"

	"arrivalcard-service/internal/domain/entity"
)

// ItineraryRepository defines the interface for itinerary storage operations
type ItineraryRepository interface {
	Save(ctx context.Context, itinerary *entity.Itinerary) error
	FindByID(ctx context.Context, id string) (*entity.Itinerary, error)
	FindByUser(ctx context.Context, userID uint) ([]*entity.Itinerary, error)
	// FindDue returns itineraries with status scheduled whose scheduled
	// submission date is at or before now.
	FindDue(ctx context.Context, now time.Time) ([]*entity.Itinerary, error)
	// FindWindowClosing returns itineraries in the given status whose
	// submission window ends inside [from, until].
	FindWindowClosing(ctx context.Context, status entity.ItineraryStatus, from, until time.Time) ([]*entity.Itinerary, error)
	// UpdateStatus is an atomic single-document status write.
	UpdateStatus(ctx context.Context, id string, status entity.ItineraryStatus) error
	Delete(ctx context.Context, id string) error
}
