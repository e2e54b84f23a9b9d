package booking

import (
	"context"
	"log"
	"rbs/src/models"
	"rbs/src/types"
	"time"
)

// Store is the persistence boundary for reservations and their transactional
// side effects. WithinTx must give the read-check-then-write sequence inside
// fn at least serializable isolation, otherwise two concurrent approvals of
// overlapping pending reservations could both observe a clear window.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	CreateReservation(ctx context.Context, r *models.Reservation) error
	UpdateReservation(ctx context.Context, r *models.Reservation) error
	ListActiveOverlapping(ctx context.Context, resourceID uint, start, end time.Time, excludeID uint) ([]models.Reservation, error)
	ListReservations(ctx context.Context, f Filter) ([]models.Reservation, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// Directory resolves the organization structure around a resource. It is
// owned by the directory collaborator and read-only from here.
type Directory interface {
	ResolveResource(ctx context.Context, id uint) (*ResourceInfo, error)
	ResolveAdmins(ctx context.Context, orgID uint) ([]uint, error)
	ResolveTenantName(ctx context.Context, orgID uint) (string, error)
}

// ResourceInfo is the slice of directory state booking policy needs.
type ResourceInfo struct {
	ID                uint
	OrganizationID    uint
	Poolable          bool
	BookingWindowDays uint
	Name              string
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Publisher emits lifecycle events to the message broker after a commit.
type Publisher interface {
	Publish(topic string, payload map[string]any) error
}

type Filter struct {
	ResourceID uint
	TenantID   uint
	OwnerOrgID uint
	Statuses   []types.ReservationStatus
	From       *time.Time
	To         *time.Time
}

type CreateParams struct {
	ResourceID  uint
	TenantID    uint
	Start       time.Time
	End         time.Time
	RequestedBy uint
	ActivityID  *uint
	Notes       *string
}

type Engine struct {
	store Store
	dir   Directory
	clock Clock
	pub   Publisher
}

func New(store Store, dir Directory, clock Clock, pub Publisher) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	return &Engine{store: store, dir: dir, clock: clock, pub: pub}
}

func (e *Engine) publish(topic string, payload map[string]any) {
	if e.pub == nil {
		return
	}
	if err := e.pub.Publish(topic, payload); err != nil {
		log.Printf("Error publishing to %s: %s\n", topic, err.Error())
	}
}
