package booking

import (
	"context"
	"rbs/src/models"
	"sort"
	"time"
)

// Availability is the result of an overlap check. Conflicts are sorted by
// start time for display.
type Availability struct {
	Available bool                 `json:"available"`
	Conflicts []models.Reservation `json:"conflicts"`
}

// CheckAvailability finds all pending or approved reservations on the
// resource intersecting [start, end). A pending hold blocks the slot just
// like an approved one, so two pending requests for the same window can
// never both reach approval. excludeID lets a reservation being re-validated
// ignore itself; zero means no exclusion.
func (e *Engine) CheckAvailability(ctx context.Context, resourceID uint, start, end time.Time, excludeID uint) (*Availability, error) {
	return e.checkAvailability(ctx, e.store, resourceID, start, end, excludeID)
}

func (e *Engine) checkAvailability(ctx context.Context, s Store, resourceID uint, start, end time.Time, excludeID uint) (*Availability, error) {
	conflicts, err := s.ListActiveOverlapping(ctx, resourceID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].StartTime.Before(conflicts[j].StartTime)
	})
	return &Availability{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}
