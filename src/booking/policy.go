package booking

import (
	"context"
	"fmt"
	"rbs/src/config"
)

// validateRequest enforces interval well-formedness, resource eligibility and
// the owner's booking horizon, then delegates to the availability check.
// Reads go through s so callers can run the whole sequence inside one
// transaction.
func (e *Engine) validateRequest(ctx context.Context, s Store, p CreateParams) (*ResourceInfo, error) {
	if !p.Start.Before(p.End) {
		return nil, &ValidationError{Reason: "reservation start must be before its end"}
	}

	resource, err := e.dir.ResolveResource(ctx, p.ResourceID)
	if err != nil {
		return nil, err
	}
	if resource.OrganizationID != p.TenantID && !resource.Poolable {
		return nil, &ValidationError{Reason: fmt.Sprintf("resource %q is not open to tenant bookings", resource.Name)}
	}

	windowDays := resource.BookingWindowDays
	if windowDays == 0 {
		windowDays = config.DEFAULT_BOOKING_WINDOW_DAYS
	}
	// The horizon boundary itself is bookable.
	horizon := e.clock.Now().AddDate(0, 0, int(windowDays))
	if p.Start.After(horizon) {
		return nil, &ValidationError{Reason: fmt.Sprintf("start exceeds the %d-day booking window", windowDays)}
	}

	availability, err := e.checkAvailability(ctx, s, p.ResourceID, p.Start, p.End, 0)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return nil, &ConflictError{Conflicts: availability.Conflicts}
	}
	return resource, nil
}
