package booking

import (
	"fmt"
	"rbs/src/models"
	"rbs/src/types"
)

// ValidationError covers malformed intervals and policy violations such as an
// exceeded booking horizon or a resource that is not bookable by the tenant.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s [%d] not found", e.Entity, e.ID)
}

// InvalidStateError reports a transition that is illegal from the current
// reservation status. The row is left untouched.
type InvalidStateError struct {
	Current    types.ReservationStatus
	Transition string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a reservation in status %q", e.Transition, e.Current)
}

// ConflictError carries the overlapping active reservations so the caller can
// show the colliding tenant and interval and pick another slot.
type ConflictError struct {
	Conflicts []models.Reservation
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("interval conflicts with %d active reservation(s)", len(e.Conflicts))
}
