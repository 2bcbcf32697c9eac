package repository

import (
	"context"

	"arrivalcard-service/internal/domain/entity"
)

// FilingClient submits arrival-card data to the destination authority.
// The call is opaque and may be slow or fail; on success it returns the
// authority's confirmation token.
type FilingClient interface {
	Submit(ctx context.Context, itinerary *entity.Itinerary) (string, error)
}
