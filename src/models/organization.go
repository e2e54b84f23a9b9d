package models

import (
	"rbs/src/types"
)

type Organization struct {
	ID                uint                   `gorm:"primarykey;uniqueIndex:slugid" json:"id"`
	Name              string                 `json:"name,omitempty"`
	About             string                 `json:"about,omitempty"`
	Country           string                 `json:"country,omitempty"`
	OwnerID           uint                   `json:"owner_id,omitempty"`
	Type              types.OrganizationType `gorm:"default:'tenant'" json:"type,omitempty"`
	ParentID          *uint                  `json:"parent_id,omitempty"`
	BookingWindowDays uint                   `gorm:"default:30" json:"booking_window_days,omitempty"`
	ContactEmail      string                 `json:"email,omitempty"`
	Status            string                 `gorm:"default:'active'" json:"status,omitempty"`
	Slug              string                 `gorm:"uniqueIndex:slugid" json:"slug"`

	Resources []Resource    `gorm:"foreignKey:organization_id" json:"-"`
	Parent    *Organization `gorm:"foreignKey:parent_id" json:"-"`
	Owner     User          `gorm:"foreignKey:owner_id" json:"-"`

	types.Timestamps
}
