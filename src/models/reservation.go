package models

import (
	"time"
	"xbs/src/types"
)

type Reservation struct {
	ID          uint                    `gorm:"primarykey" json:"id"`
	BoothID     uint                    `json:"booth_id,omitempty"`
	EventID     uint                    `json:"event_id,omitempty"`
	ExhibitorID uint                    `json:"exhibitor_id,omitempty"`
	Status      types.ReservationStatus `gorm:"default:'pending'" json:"status,omitempty"`
	ReservedAt  time.Time               `json:"reserved_at,omitempty"`
	// ExpiresAt is set while pending only; a pending reservation past it is
	// logically expired even before any sweep runs.
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`

	Booth     Booth `gorm:"foreignKey:booth_id" json:"booth,omitempty"`
	Event     Event `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Exhibitor User  `gorm:"foreignKey:exhibitor_id" json:"exhibitor,omitempty"`

	types.Timestamps
}
