package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// Handler processes a raw queue message body.
type Handler func(payload string)

type ReservationStatus string

const (
	RESERVATION_PENDING   ReservationStatus = "pending"
	RESERVATION_APPROVED  ReservationStatus = "approved"
	RESERVATION_DENIED    ReservationStatus = "denied"
	RESERVATION_CANCELLED ReservationStatus = "cancelled"
)

type OrganizationType string

const (
	ORG_HOSTING OrganizationType = "hosting"
	ORG_TENANT  OrganizationType = "tenant"
)

type NotificationType string

const (
	NOTIFICATION_RESERVATION_REQUESTED NotificationType = "reservation_requested"
)

type CreateReservationRequestBody struct {
	ResourceID uint    `json:"resource" binding:"required"`
	Start      string  `json:"start" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	End        string  `json:"end" binding:"required,bookabledate,gtdate=Start" time_format:"2006-01-02 15:04:05 -07:00"`
	ActivityID *uint   `json:"activity,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type DenyReservationRequestBody struct {
	Reason *string `json:"reason,omitempty"`
}

type ReservationQueryFilters struct {
	Resource string `form:"resource"`
	Tenant   string `form:"tenant"`
	Owner    string `form:"owner"`
	Statuses string `form:"statuses"`
	From     string `form:"from"`
	To       string `form:"to"`
}

type AvailabilityQueryParams struct {
	Start   string `form:"start" binding:"required"`
	End     string `form:"end" binding:"required"`
	Exclude uint   `form:"exclude"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterUserRequestBody struct {
	Email string `json:"email" binding:"required"`
}
