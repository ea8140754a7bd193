package models

import (
	"xbs/src/types"

	"github.com/google/uuid"
)

type Transaction struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`

	ReservationID uint `json:"reservation_id,omitempty"`
	// Amount is in the provider's minor units (integer cents) and is
	// immutable once the row exists.
	Amount          int64                   `json:"amount"`
	Currency        string                  `json:"currency,omitempty"`
	Status          types.TransactionStatus `gorm:"default:'pending'" json:"status,omitempty"`
	PaymentIntentId *string                 `json:"payment_intent_id,omitempty"`
	RefundId        *string                 `json:"refund_id,omitempty"`
	Metadata        types.JSONB             `gorm:"type:jsonb" json:"metadata,omitempty"`

	Reservation Reservation `gorm:"foreignKey:reservation_id" json:"-"`

	types.Timestamps
}
