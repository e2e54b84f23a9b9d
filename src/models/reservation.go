package models

import (
	"rbs/src/types"
	"time"
)

type Reservation struct {
	ID           uint                    `gorm:"primarykey" json:"id"`
	ResourceID   uint                    `json:"resource_id,omitempty"`
	TenantID     uint                    `json:"tenant_id,omitempty"`
	ActivityID   *uint                   `json:"activity_id,omitempty"`
	StartTime    time.Time               `json:"start_time"`
	EndTime      time.Time               `json:"end_time"`
	RequestedBy  uint                    `json:"requested_by,omitempty"`
	Notes        *string                 `json:"notes,omitempty"`
	Status       types.ReservationStatus `gorm:"default:'pending'" json:"status,omitempty"`
	DenialReason *string                 `json:"denial_reason,omitempty"`
	ApprovedBy   *uint                   `json:"approved_by,omitempty"`

	Resource  *Resource     `gorm:"foreignKey:resource_id" json:"resource,omitempty"`
	Tenant    *Organization `gorm:"foreignKey:tenant_id" json:"tenant,omitempty"`
	Activity  *Activity     `gorm:"foreignKey:activity_id" json:"activity,omitempty"`
	Requester *User         `gorm:"foreignKey:requested_by" json:"-"`
	Approver  *User         `gorm:"foreignKey:approved_by" json:"-"`

	types.Timestamps
}
