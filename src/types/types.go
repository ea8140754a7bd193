package types

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type Metadata map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, &a)
}

func (a Metadata) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *Metadata) Scan(value any) error {
	b, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, &a)
}

func jsonbBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported jsonb source type")
	}
}

type BoothStatus string

const (
	BOOTH_AVAILABLE   BoothStatus = "available"
	BOOTH_RESERVED    BoothStatus = "reserved"
	BOOTH_BOOKED      BoothStatus = "booked"
	BOOTH_UNAVAILABLE BoothStatus = "unavailable"
)

type ReservationStatus string

const (
	RESERVATION_PENDING   ReservationStatus = "pending"
	RESERVATION_CONFIRMED ReservationStatus = "confirmed"
	RESERVATION_CANCELED  ReservationStatus = "cancelled"
	RESERVATION_COMPLETED ReservationStatus = "completed"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING    TransactionStatus = "pending"
	TRANSACTION_PROCESSING TransactionStatus = "processing"
	TRANSACTION_COMPLETED  TransactionStatus = "completed"
	TRANSACTION_FAILED     TransactionStatus = "failed"
	TRANSACTION_REFUNDED   TransactionStatus = "refunded"
)

// CanTransitionTo reports whether moving to next keeps the transaction
// status monotonic. Terminal states only move completed -> refunded.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case TRANSACTION_PENDING:
		return next == TRANSACTION_PROCESSING || next == TRANSACTION_COMPLETED || next == TRANSACTION_FAILED
	case TRANSACTION_PROCESSING:
		return next == TRANSACTION_COMPLETED || next == TRANSACTION_FAILED
	case TRANSACTION_COMPLETED:
		return next == TRANSACTION_REFUNDED
	default:
		return false
	}
}

type InvoiceStatus string

const (
	INVOICE_DRAFT    InvoiceStatus = "draft"
	INVOICE_SENT     InvoiceStatus = "sent"
	INVOICE_PAID     InvoiceStatus = "paid"
	INVOICE_OVERDUE  InvoiceStatus = "overdue"
	INVOICE_CANCELED InvoiceStatus = "cancelled"
)

type EventStatus string

const (
	EVENT_DRAFT     EventStatus = "draft"
	EVENT_PUBLISHED EventStatus = "published"
	EVENT_COMPLETED EventStatus = "completed"
	EVENT_ARCHIVED  EventStatus = "archived"
)

// Machine-readable error codes surfaced to the frontend so it can prompt
// re-selection instead of parsing message strings.
const (
	CODE_VALIDATION_ERROR      = "VALIDATION_ERROR"
	CODE_NOT_FOUND             = "NOT_FOUND"
	CODE_FORBIDDEN             = "FORBIDDEN"
	CODE_BOOTH_UNAVAILABLE     = "BOOTH_UNAVAILABLE"
	CODE_BOOTH_RESERVED        = "BOOTH_RESERVED"
	CODE_RESERVATION_EXPIRED   = "RESERVATION_EXPIRED"
	CODE_INVALID_RESERVATION   = "INVALID_RESERVATION"
	CODE_PAYMENT_NOT_COMPLETED = "PAYMENT_NOT_COMPLETED"
	CODE_UPSTREAM_ERROR        = "UPSTREAM_ERROR"
	CODE_INTERNAL_ERROR        = "INTERNAL_ERROR"
)

// PaymentIntentInfo is the provider-agnostic view of a payment intent.
type PaymentIntentInfo struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

// PaymentProvider is the slice of the external processor the orchestrator
// needs. The stripe-backed implementation lives in lib; tests swap in a
// fake the same way lib clients are swapped with NewXxxClient.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntentInfo, error)
	RetrieveIntent(ctx context.Context, id string) (*PaymentIntentInfo, error)
	CancelIntent(ctx context.Context, id string) error
	CreateRefund(ctx context.Context, intentID string, amount int64) (string, error)
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterRequestBody struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

type LoginRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateEventRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Venue    string `json:"venue" binding:"required"`
	StartsAt string `json:"starts_at" binding:"required,futuredate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndsAt   string `json:"ends_at" binding:"required" time_format:"2006-01-02 15:04:05 -07:00"`
	Publish  bool   `json:"publish,omitempty"`
}

type CreateBoothsRequestBody struct {
	Booths []CreateBoothItem `json:"booths" binding:"required,min=1,dive"`
}

type CreateBoothItem struct {
	Number    string  `json:"number" binding:"required"`
	SizeClass string  `json:"size_class" binding:"required,oneof=small standard large island"`
	Price     float64 `json:"price" binding:"required,gt=0"`
}

type ReserveBoothRequestBody struct {
	EventID uint `json:"event_id" binding:"required"`
}

type CreatePurchaseRequestBody struct {
	ReservationID uint `json:"reservation_id" binding:"required"`
}

type ConfirmPaymentRequestBody struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

type RefundRequestBody struct {
	Amount *float64 `json:"amount,omitempty" binding:"omitempty,gt=0"`
}

type BoothQueryFilters struct {
	Status    string `form:"status"`
	SizeClass string `form:"size_class"`
}
