package models

import (
	"rbs/src/types"
)

type Resource struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	Name           string `json:"name,omitempty"`
	About          *string `json:"about,omitempty"`
	Location       string `json:"location,omitempty"`
	OrganizationID uint   `json:"organization_id,omitempty"`
	Poolable       bool   `gorm:"default:false" json:"poolable"`
	Status         string `gorm:"default:'active'" json:"status,omitempty"`

	Organization *Organization `gorm:"foreignKey:organization_id" json:"-"`

	types.Timestamps
}
