package models

import (
	"time"
	"xbs/src/types"
)

type Invoice struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	ReservationID uint   `gorm:"uniqueIndex" json:"reservation_id,omitempty"`
	Number        string `gorm:"uniqueIndex" json:"number,omitempty"`
	// Amount, TaxAmount and Total are minor units; Total is always
	// Amount+TaxAmount at creation and never recomputed after paid.
	Amount    int64               `json:"amount"`
	TaxAmount int64               `json:"tax_amount"`
	Total     int64               `json:"total"`
	Currency  string              `json:"currency,omitempty"`
	Status    types.InvoiceStatus `gorm:"default:'draft'" json:"status,omitempty"`
	DueDate   time.Time           `json:"due_date,omitempty"`

	Reservation Reservation `gorm:"foreignKey:reservation_id" json:"-"`

	types.Timestamps
}
