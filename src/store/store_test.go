package store

import (
	"context"
	"errors"
	"fmt"
	"rbs/src/booking"
	"rbs/src/models"
	"rbs/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbi, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbi.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Resource{},
		&models.Activity{},
		&models.Reservation{},
		&models.Notification{},
	))

	owner := models.User{ID: 1, Name: "Admin", Email: "admin@hosting.test", Role: "admin", ActiveOrg: 1}
	require.NoError(t, dbi.Create(&owner).Error)
	orgs := []models.Organization{
		{ID: 1, Name: "Hosting Org", Type: types.ORG_HOSTING, OwnerID: 1, Slug: "hosting-org"},
		{ID: 2, Name: "Acme Labs", Type: types.ORG_TENANT, Slug: "acme-labs"},
		{ID: 3, Name: "Globex", Type: types.ORG_TENANT, Slug: "globex"},
	}
	require.NoError(t, dbi.Create(&orgs).Error)
	resources := []models.Resource{
		{ID: 1, Name: "Conference Room A", OrganizationID: 1, Poolable: true},
		{ID: 2, Name: "Lab Bench", OrganizationID: 2},
	}
	require.NoError(t, dbi.Create(&resources).Error)

	return New(dbi), dbi
}

func at(hour int) time.Time {
	return time.Date(2026, 5, 6, hour, 0, 0, 0, time.UTC)
}

func TestListActiveOverlapping(t *testing.T) {
	s, dbi := newTestStore(t)
	ctx := context.Background()

	rows := []models.Reservation{
		{ID: 1, ResourceID: 1, TenantID: 2, StartTime: at(8), EndTime: at(10), Status: types.RESERVATION_APPROVED},
		{ID: 2, ResourceID: 1, TenantID: 3, StartTime: at(9), EndTime: at(11), Status: types.RESERVATION_PENDING},
		{ID: 3, ResourceID: 1, TenantID: 2, StartTime: at(10), EndTime: at(12), Status: types.RESERVATION_DENIED},
		{ID: 4, ResourceID: 1, TenantID: 3, StartTime: at(12), EndTime: at(14), Status: types.RESERVATION_APPROVED},
		{ID: 5, ResourceID: 2, TenantID: 2, StartTime: at(8), EndTime: at(10), Status: types.RESERVATION_APPROVED},
	}
	require.NoError(t, dbi.Create(&rows).Error)

	// [09:00, 12:00) intersects rows 1 and 2; row 3 is denied, row 4 starts at
	// the query end and row 5 is on another resource.
	out, err := s.ListActiveOverlapping(ctx, 1, at(9), at(12), 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint(1), out[0].ID)
	assert.Equal(t, uint(2), out[1].ID)
	require.NotNil(t, out[0].Tenant)
	assert.Equal(t, "Acme Labs", out[0].Tenant.Name)

	out, err = s.ListActiveOverlapping(ctx, 1, at(9), at(12), 2)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint(1), out[0].ID)

	out, err = s.ListActiveOverlapping(ctx, 1, at(14), at(16), 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGetReservation(t *testing.T) {
	s, dbi := newTestStore(t)
	ctx := context.Background()

	row := models.Reservation{ID: 1, ResourceID: 1, TenantID: 2, StartTime: at(8), EndTime: at(10), Status: types.RESERVATION_PENDING}
	require.NoError(t, dbi.Create(&row).Error)

	r, err := s.GetReservation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, types.RESERVATION_PENDING, r.Status)
	require.NotNil(t, r.Resource)
	assert.Equal(t, "Conference Room A", r.Resource.Name)
	require.NotNil(t, r.Tenant)
	assert.Equal(t, "Acme Labs", r.Tenant.Name)

	_, err = s.GetReservation(ctx, 99)
	var notFoundErr *booking.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, uint(99), notFoundErr.ID)
}

func TestUpdateReservation(t *testing.T) {
	s, dbi := newTestStore(t)
	ctx := context.Background()

	row := models.Reservation{ID: 1, ResourceID: 1, TenantID: 2, StartTime: at(8), EndTime: at(10), Status: types.RESERVATION_PENDING}
	require.NoError(t, dbi.Create(&row).Error)

	reason := "double booked"
	approver := uint(1)
	row.Status = types.RESERVATION_DENIED
	row.DenialReason = &reason
	row.ApprovedBy = &approver
	require.NoError(t, s.UpdateReservation(ctx, &row))

	got, err := s.GetReservation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, types.RESERVATION_DENIED, got.Status)
	require.NotNil(t, got.DenialReason)
	assert.Equal(t, reason, *got.DenialReason)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, approver, *got.ApprovedBy)
}

func TestWithinTxRollsBackAllWrites(t *testing.T) {
	s, dbi := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("fan-out failed")
	err := s.WithinTx(ctx, func(tx booking.Store) error {
		r := &models.Reservation{ResourceID: 1, TenantID: 2, StartTime: at(8), EndTime: at(10), Status: types.RESERVATION_PENDING}
		if err := tx.CreateReservation(ctx, r); err != nil {
			return err
		}
		n := &models.Notification{UserID: 1, Type: types.NOTIFICATION_RESERVATION_REQUESTED, Title: "Reservation request"}
		if err := tx.CreateNotification(ctx, n); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var reservations, notifications int64
	require.NoError(t, dbi.Model(&models.Reservation{}).Count(&reservations).Error)
	require.NoError(t, dbi.Model(&models.Notification{}).Count(&notifications).Error)
	assert.Zero(t, reservations)
	assert.Zero(t, notifications)
}

func TestListReservationsFilters(t *testing.T) {
	s, dbi := newTestStore(t)
	ctx := context.Background()

	rows := []models.Reservation{
		{ID: 1, ResourceID: 1, TenantID: 2, StartTime: at(8), EndTime: at(10), Status: types.RESERVATION_APPROVED},
		{ID: 2, ResourceID: 1, TenantID: 3, StartTime: at(11), EndTime: at(12), Status: types.RESERVATION_PENDING},
		{ID: 3, ResourceID: 2, TenantID: 2, StartTime: at(9), EndTime: at(10), Status: types.RESERVATION_CANCELLED},
	}
	require.NoError(t, dbi.Create(&rows).Error)

	out, err := s.ListReservations(ctx, booking.Filter{ResourceID: 1})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint(1), out[0].ID)
	assert.Equal(t, uint(2), out[1].ID)

	out, err = s.ListReservations(ctx, booking.Filter{TenantID: 2})
	require.NoError(t, err)
	require.Len(t, out, 2)

	out, err = s.ListReservations(ctx, booking.Filter{
		Statuses: []types.ReservationStatus{types.RESERVATION_PENDING, types.RESERVATION_CANCELLED},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	out, err = s.ListReservations(ctx, booking.Filter{OwnerOrgID: 2})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint(3), out[0].ID)

	from, to := at(9), at(11)
	out, err = s.ListReservations(ctx, booking.Filter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint(3), out[0].ID)
	assert.Equal(t, uint(2), out[1].ID)
}
