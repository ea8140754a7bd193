package models

import "xbs/src/types"

type Booth struct {
	ID        uint              `gorm:"primarykey" json:"id"`
	EventID   uint              `gorm:"uniqueIndex:idx_event_booth_number" json:"event_id,omitempty"`
	Number    string            `gorm:"uniqueIndex:idx_event_booth_number" json:"number,omitempty"`
	SizeClass string            `json:"size_class,omitempty"`
	Price     float64           `json:"price"`
	Currency  string            `gorm:"default:'usd'" json:"currency,omitempty"`
	Status    types.BoothStatus `gorm:"default:'available'" json:"status,omitempty"`

	Event        Event          `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Reservations []*Reservation `gorm:"foreignKey:booth_id" json:"reservations,omitempty"`

	types.Timestamps
}
