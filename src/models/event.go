package models

import (
	"time"
	"xbs/src/types"
)

type Event struct {
	ID        uint              `gorm:"primarykey" json:"id"`
	Name      string            `json:"name,omitempty"`
	Slug      string            `gorm:"uniqueIndex" json:"slug,omitempty"`
	Venue     string            `json:"venue,omitempty"`
	Status    types.EventStatus `gorm:"default:'draft'" json:"status,omitempty"`
	StartsAt  time.Time         `json:"starts_at,omitempty"`
	EndsAt    time.Time         `json:"ends_at,omitempty"`
	CreatedBy uint              `json:"created_by,omitempty"`

	Creator User     `gorm:"foreignKey:created_by" json:"-"`
	Booths  []*Booth `gorm:"foreignKey:event_id" json:"booths,omitempty"`

	types.Timestamps
}
