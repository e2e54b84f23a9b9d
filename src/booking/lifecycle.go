package booking

import (
	"context"
	"fmt"
	"rbs/src/config"
	"rbs/src/models"
	"rbs/src/types"

	"github.com/google/uuid"
)

const (
	TopicReservationRequested = "reservations-requested"
	TopicReservationApproved  = "reservations-approved"
	TopicReservationDenied    = "reservations-denied"
	TopicReservationCancelled = "reservations-cancelled"
)

// Create validates the request and, in one transaction, persists the pending
// reservation together with one notification row per administrator of the
// owning organization. If the fan-out fails the insert rolls back, so a
// reservation never exists without its approvers having been notified.
func (e *Engine) Create(ctx context.Context, p CreateParams) (*models.Reservation, error) {
	var created *models.Reservation
	requestID := uuid.New()
	err := e.store.WithinTx(ctx, func(tx Store) error {
		resource, err := e.validateRequest(ctx, tx, p)
		if err != nil {
			return err
		}
		r := &models.Reservation{
			ResourceID:  p.ResourceID,
			TenantID:    p.TenantID,
			ActivityID:  p.ActivityID,
			StartTime:   p.Start,
			EndTime:     p.End,
			RequestedBy: p.RequestedBy,
			Notes:       p.Notes,
			Status:      types.RESERVATION_PENDING,
		}
		if err := tx.CreateReservation(ctx, r); err != nil {
			return err
		}
		admins, err := e.dir.ResolveAdmins(ctx, resource.OrganizationID)
		if err != nil {
			return err
		}
		tenantName, err := e.dir.ResolveTenantName(ctx, p.TenantID)
		if err != nil {
			return err
		}
		for _, adminID := range admins {
			n := &models.Notification{
				UserID:  adminID,
				Type:    types.NOTIFICATION_RESERVATION_REQUESTED,
				Title:   fmt.Sprintf("Reservation request for %s", resource.Name),
				Message: fmt.Sprintf("%s requested %s from %s to %s", tenantName, resource.Name, r.StartTime.Format(config.TIME_PARSE_FORMAT), r.EndTime.Format(config.TIME_PARSE_FORMAT)),
				LinkURL: fmt.Sprintf("/reservations/%d", r.ID),
				ReferenceBody: &types.JSONB{
					"request_id":  requestID.String(),
					"reservation": r.ID,
					"resource":    resource.ID,
					"tenant":      p.TenantID,
					"tenant_name": tenantName,
				},
			}
			if err := tx.CreateNotification(ctx, n); err != nil {
				return err
			}
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.publish(TopicReservationRequested, map[string]any{
		"request_id": requestID.String(),
		"id":         created.ID,
		"resource":   created.ResourceID,
		"tenant":     created.TenantID,
		"by":         created.RequestedBy,
	})
	return created, nil
}

// Approve moves a pending reservation to approved. The availability check is
// re-run excluding the reservation itself: another request may have been
// approved for an overlapping window since this one was created. On conflict
// the status stays pending rather than being auto-denied, leaving the call to
// the administrator.
func (e *Engine) Approve(ctx context.Context, id uint, approvedBy uint) (*models.Reservation, error) {
	var approved *models.Reservation
	err := e.store.WithinTx(ctx, func(tx Store) error {
		r, err := tx.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		if r.Status != types.RESERVATION_PENDING {
			return &InvalidStateError{Current: r.Status, Transition: "approve"}
		}
		availability, err := e.checkAvailability(ctx, tx, r.ResourceID, r.StartTime, r.EndTime, r.ID)
		if err != nil {
			return err
		}
		if !availability.Available {
			return &ConflictError{Conflicts: availability.Conflicts}
		}
		r.Status = types.RESERVATION_APPROVED
		r.ApprovedBy = &approvedBy
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		approved = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.publish(TopicReservationApproved, map[string]any{"id": approved.ID, "by": approvedBy})
	return approved, nil
}

// Deny moves a pending reservation to denied, keeping the optional
// human-readable reason. Denied is terminal.
func (e *Engine) Deny(ctx context.Context, id uint, deniedBy uint, reason *string) (*models.Reservation, error) {
	var denied *models.Reservation
	err := e.store.WithinTx(ctx, func(tx Store) error {
		r, err := tx.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		if r.Status != types.RESERVATION_PENDING {
			return &InvalidStateError{Current: r.Status, Transition: "deny"}
		}
		r.Status = types.RESERVATION_DENIED
		r.DenialReason = reason
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		denied = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.publish(TopicReservationDenied, map[string]any{"id": denied.ID, "by": deniedBy})
	return denied, nil
}

// Cancel is allowed from pending or approved and frees the interval for
// future availability checks. Cancelled is terminal.
func (e *Engine) Cancel(ctx context.Context, id uint, cancelledBy uint) (*models.Reservation, error) {
	var cancelled *models.Reservation
	err := e.store.WithinTx(ctx, func(tx Store) error {
		r, err := tx.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		if r.Status != types.RESERVATION_PENDING && r.Status != types.RESERVATION_APPROVED {
			return &InvalidStateError{Current: r.Status, Transition: "cancel"}
		}
		r.Status = types.RESERVATION_CANCELLED
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		cancelled = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.publish(TopicReservationCancelled, map[string]any{"id": cancelled.ID, "by": cancelledBy})
	return cancelled, nil
}
