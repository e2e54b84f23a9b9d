package models

import (
	"rbs/src/types"
	"time"
)

type Notification struct {
	ID            uint                   `gorm:"primarykey" json:"id"`
	UserID        uint                   `json:"user_id,omitempty"`
	Type          types.NotificationType `json:"type,omitempty"`
	Title         string                 `json:"title"`
	Message       string                 `json:"message,omitempty"`
	LinkURL       string                 `json:"link_url,omitempty"`
	ReferenceBody *types.JSONB           `gorm:"type:jsonb" json:"ref_body,omitempty"`
	Dispatched    bool                   `gorm:"default:false" json:"dispatched"`
	DispatchedAt  *time.Time             `json:"dispatched_at,omitempty"`

	User *User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
