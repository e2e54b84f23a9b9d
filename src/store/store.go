package store

import (
	"context"
	"errors"
	"rbs/src/booking"
	"rbs/src/models"
	"rbs/src/types"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements booking.Store on gorm. Mutating calls inside WithinTx run
// on the transaction handle; the isolation level is whatever the database
// session provides, so the deployment must run the reservations database at
// serializable for concurrent approvals to be safe.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx booking.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where(&models.Reservation{ID: id}).
		Preload("Resource").
		Preload("Tenant").
		Preload("Activity").
		First(&r).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &booking.NotFoundError{Entity: "reservation", ID: id}
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) CreateReservation(ctx context.Context, r *models.Reservation) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Store) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	return s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where(&models.Reservation{ID: r.ID}).
		Select("status", "denial_reason", "approved_by").
		Updates(map[string]any{
			"status":        r.Status,
			"denial_reason": r.DenialReason,
			"approved_by":   r.ApprovedBy,
		}).
		Error
}

func (s *Store) ListActiveOverlapping(ctx context.Context, resourceID uint, start, end time.Time, excludeID uint) ([]models.Reservation, error) {
	q := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where(&models.Reservation{ResourceID: resourceID}).
		Where(clause.IN{Column: "status", Values: []any{types.RESERVATION_PENDING, types.RESERVATION_APPROVED}}).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var out []models.Reservation
	err := q.
		Preload("Tenant").
		Order("start_time asc").
		Find(&out).
		Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListReservations(ctx context.Context, f booking.Filter) ([]models.Reservation, error) {
	q := s.db.WithContext(ctx).Model(&models.Reservation{})
	if f.ResourceID != 0 {
		q = q.Where(&models.Reservation{ResourceID: f.ResourceID})
	}
	if f.TenantID != 0 {
		q = q.Where(&models.Reservation{TenantID: f.TenantID})
	}
	if f.OwnerOrgID != 0 {
		q = q.Joins("Resource").Where("\"Resource\".organization_id = ?", f.OwnerOrgID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]any, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			statuses = append(statuses, st)
		}
		q = q.Where(clause.IN{Column: "status", Values: statuses})
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_time <= ?", *f.To)
	}
	var out []models.Reservation
	err := q.
		Preload("Resource").
		Preload("Tenant").
		Preload("Activity").
		Order("start_time asc").
		Limit(500).
		Find(&out).
		Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}
