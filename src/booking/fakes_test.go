package booking

import (
	"context"
	"errors"
	"rbs/src/models"
	"rbs/src/types"
	"sort"
	"sync"
	"time"
)

// fakeStore keeps reservations in memory so engine behavior can be tested
// without a database. WithinTx snapshots state and restores it on error to
// mimic a rollback.
type fakeStore struct {
	mu            sync.Mutex
	nextID        uint
	reservations  map[uint]models.Reservation
	notifications []models.Notification
	failNotify    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{reservations: map[uint]models.Reservation{}}
}

func (f *fakeStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	f.mu.Lock()
	backup := make(map[uint]models.Reservation, len(f.reservations))
	for k, v := range f.reservations {
		backup[k] = v
	}
	notifBackup := make([]models.Notification, len(f.notifications))
	copy(notifBackup, f.notifications)
	nextBackup := f.nextID
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.reservations = backup
		f.notifications = notifBackup
		f.nextID = nextBackup
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *fakeStore) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reservations[id]
	if !ok {
		return nil, &NotFoundError{Entity: "reservation", ID: id}
	}
	out := r
	return &out, nil
}

func (f *fakeStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r.ID = f.nextID
	f.reservations[r.ID] = *r
	return nil
}

func (f *fakeStore) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.reservations[r.ID]
	if !ok {
		return &NotFoundError{Entity: "reservation", ID: r.ID}
	}
	stored.Status = r.Status
	stored.DenialReason = r.DenialReason
	stored.ApprovedBy = r.ApprovedBy
	f.reservations[r.ID] = stored
	return nil
}

func (f *fakeStore) ListActiveOverlapping(ctx context.Context, resourceID uint, start, end time.Time, excludeID uint) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.reservations {
		if r.ResourceID != resourceID || r.ID == excludeID {
			continue
		}
		if r.Status != types.RESERVATION_PENDING && r.Status != types.RESERVATION_APPROVED {
			continue
		}
		if r.StartTime.Before(end) && r.EndTime.After(start) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ListReservations(ctx context.Context, filter Filter) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, r := range f.reservations {
		if filter.ResourceID != 0 && r.ResourceID != filter.ResourceID {
			continue
		}
		if filter.TenantID != 0 && r.TenantID != filter.TenantID {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if r.Status == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		if filter.From != nil && r.StartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && r.StartTime.After(*filter.To) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNotify {
		return errors.New("notification insert failed")
	}
	f.notifications = append(f.notifications, *n)
	return nil
}

type fakeDirectory struct {
	resources map[uint]ResourceInfo
	admins    map[uint][]uint
	names     map[uint]string
}

func (d *fakeDirectory) ResolveResource(ctx context.Context, id uint) (*ResourceInfo, error) {
	r, ok := d.resources[id]
	if !ok {
		return nil, &NotFoundError{Entity: "resource", ID: id}
	}
	out := r
	return &out, nil
}

func (d *fakeDirectory) ResolveAdmins(ctx context.Context, orgID uint) ([]uint, error) {
	return d.admins[orgID], nil
}

func (d *fakeDirectory) ResolveTenantName(ctx context.Context, orgID uint) (string, error) {
	name, ok := d.names[orgID]
	if !ok {
		return "", &NotFoundError{Entity: "organization", ID: orgID}
	}
	return name, nil
}

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(topic string, payload map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}
