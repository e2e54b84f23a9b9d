package models

import (
	"rbs/src/types"
	"time"
)

type User struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role,omitempty"`
	UID           string `json:"uid,omitempty"`
	ActiveOrg     uint   `json:"active_org,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	VerifiedAt    time.Time `json:"verified_at,omitempty"`

	Organizations []Organization `gorm:"foreignKey:owner_id" json:"organizations,omitempty"`

	types.Timestamps
}
