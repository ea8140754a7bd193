package models

import "xbs/src/types"

type User struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	Name             string  `json:"name,omitempty"`
	Email            string  `gorm:"uniqueIndex" json:"email,omitempty"`
	Role             string  `gorm:"default:'exhibitor'" json:"role,omitempty"`
	StripeCustomerId *string `json:"-"`

	Reservations []Reservation `gorm:"foreignKey:exhibitor_id" json:"reservations,omitempty"`

	types.Timestamps
}
