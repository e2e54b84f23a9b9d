package booking

import (
	"context"
	"rbs/src/models"
)

// List returns reservations matching the filter with their resource, tenant
// and activity display data, ordered by start time ascending. Row-level
// visibility is the caller's concern.
func (e *Engine) List(ctx context.Context, f Filter) ([]models.Reservation, error) {
	return e.store.ListReservations(ctx, f)
}

// Get loads a single reservation with its display data.
func (e *Engine) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	return e.store.GetReservation(ctx, id)
}
