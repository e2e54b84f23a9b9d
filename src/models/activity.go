package models

import (
	"rbs/src/types"
	"time"
)

// Activity is a tenant-side calendar entry a reservation can be linked to.
type Activity struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	Title          string     `json:"title,omitempty"`
	OrganizationID uint       `json:"organization_id,omitempty"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`

	Organization *Organization `gorm:"foreignKey:organization_id" json:"-"`

	types.Timestamps
}
