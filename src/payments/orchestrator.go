// Package payments drives the external payment provider against the
// reservation manager and booth ledger. Every step after the provider has
// captured funds is idempotent so a half-finished confirmation is retried,
// never rolled back.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
	"xbs/src/bus"
	"xbs/src/config"
	"xbs/src/db"
	"xbs/src/ledger"
	"xbs/src/lib"
	"xbs/src/models"
	"xbs/src/reservations"
	"xbs/src/types"
	"xbs/src/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("transaction not found")
	ErrForbidden           = errors.New("reservation belongs to another user")
	ErrPaymentNotCompleted = errors.New("payment has not completed")
	ErrNoIntent            = errors.New("transaction has no payment intent")
	ErrUpstream            = errors.New("payment provider error")
	ErrInvalidState        = errors.New("transaction is not in a valid state for this operation")
)

var provider types.PaymentProvider

// UseProvider swaps the payment provider implementation. Tests install a
// fake here the same way lib clients are swapped.
func UseProvider(p types.PaymentProvider) {
	provider = p
}

func getProvider() types.PaymentProvider {
	if provider == nil {
		provider = lib.NewStripeProvider()
	}
	return provider
}

// ToMinorUnits converts a decimal price to integer cents, rounding half up.
func ToMinorUnits(price float64) int64 {
	return int64(math.Floor(price*100 + 0.5))
}

type PurchaseIntent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	IntentID      string    `json:"payment_intent_id"`
	ClientSecret  string    `json:"client_secret"`
}

type ConfirmResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Reservation *models.Reservation `json:"reservation"`
	Invoice     *models.Invoice     `json:"invoice"`
}

// CreatePurchaseIntent creates (or reuses) the payment intent for a pending,
// unexpired reservation. A non-terminal transaction already holding an
// external intent is reused as-is so a client retry can never double-charge;
// a transaction missing its intent id (a previous create timed out between
// insert and provider call) is repaired in place.
func CreatePurchaseIntent(ctx context.Context, reservationID, userID uint) (*PurchaseIntent, error) {
	gdb := db.GetDb()
	var reservation models.Reservation
	err := gdb.
		Model(&models.Reservation{}).
		Where("id = ?", reservationID).
		Preload("Booth").
		First(&reservation).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservations.ErrNotFound
		}
		return nil, err
	}
	if userID != 0 && reservation.ExhibitorID != userID {
		return nil, ErrForbidden
	}
	expired, err := reservations.ExpireIfDue(&reservation)
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, reservations.ErrExpired
	}
	if reservation.Status != types.RESERVATION_PENDING {
		return nil, reservations.ErrInvalidState
	}

	cfg := config.Get()
	var txn models.Transaction
	err = gdb.
		Model(&models.Transaction{}).
		Where("reservation_id = ? AND status IN (?)", reservationID, []types.TransactionStatus{
			types.TRANSACTION_PENDING,
			types.TRANSACTION_PROCESSING,
		}).
		First(&txn).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil {
		txn = models.Transaction{
			ID:            uuid.New(),
			ReservationID: reservationID,
			Amount:        ToMinorUnits(reservation.Booth.Price),
			Currency:      cfg.Currency,
			Status:        types.TRANSACTION_PENDING,
			Metadata: types.JSONB{
				"booth_id": reservation.BoothID,
				"event_id": reservation.EventID,
			},
		}
		if err := gdb.Create(&txn).Error; err != nil {
			return nil, err
		}
	}

	if txn.PaymentIntentId != nil {
		intent, err := getProvider().RetrieveIntent(ctx, *txn.PaymentIntentId)
		if err != nil {
			return nil, fmt.Errorf("%w: retrieving intent: %s", ErrUpstream, err.Error())
		}
		return &PurchaseIntent{TransactionID: txn.ID, IntentID: intent.ID, ClientSecret: intent.ClientSecret}, nil
	}

	intent, err := getProvider().CreateIntent(ctx, txn.Amount, txn.Currency, map[string]string{
		"transaction_id": txn.ID.String(),
		"reservation_id": fmt.Sprint(reservationID),
	})
	if err != nil {
		// the transaction row stays behind without an intent id; the next
		// call repairs it instead of charging twice
		return nil, fmt.Errorf("%w: creating intent: %s", ErrUpstream, err.Error())
	}
	if err := gdb.
		Model(&models.Transaction{}).
		Where("id = ?", txn.ID).
		Update("payment_intent_id", intent.ID).
		Error; err != nil {
		return nil, err
	}
	return &PurchaseIntent{TransactionID: txn.ID, IntentID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// ConfirmPurchase fetches the authoritative intent status from the provider
// and, when it reports succeeded, walks the confirm sequence: transaction
// completed, reservation confirmed, booth booked, invoice issued and paid.
// Each step no-ops when already applied, so the synchronous path and the
// webhook path can race or repeat freely.
func ConfirmPurchase(ctx context.Context, intentID string) (*ConfirmResult, error) {
	intent, err := getProvider().RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieving intent %s: %s", ErrUpstream, intentID, err.Error())
	}
	if intent.Status != "succeeded" {
		return nil, fmt.Errorf("%w: provider reports %q", ErrPaymentNotCompleted, intent.Status)
	}

	gdb := db.GetDb()
	var txn models.Transaction
	err = gdb.
		Model(&models.Transaction{}).
		Where("payment_intent_id = ?", intentID).
		First(&txn).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if txn.Status != types.TRANSACTION_COMPLETED {
		if !txn.Status.CanTransitionTo(types.TRANSACTION_COMPLETED) {
			return nil, ErrInvalidState
		}
		res := gdb.
			Model(&models.Transaction{}).
			Where("id = ? AND status IN (?)", txn.ID, []types.TransactionStatus{
				types.TRANSACTION_PENDING,
				types.TRANSACTION_PROCESSING,
			}).
			Update("status", types.TRANSACTION_COMPLETED)
		if res.Error != nil {
			return nil, res.Error
		}
		txn.Status = types.TRANSACTION_COMPLETED
	}

	reservation, err := confirmReservation(txn.ReservationID)
	if err != nil {
		return nil, err
	}

	if err := ledger.MarkBooked(reservation.BoothID); err != nil {
		return nil, err
	}

	invoice, err := ensurePaidInvoice(&txn, reservation)
	if err != nil {
		return nil, err
	}

	bus.Publish(bus.TopicPaymentCompleted, map[string]any{
		"transaction_id": txn.ID.String(),
		"reservation_id": reservation.ID,
		"booth_id":       reservation.BoothID,
		"event_id":       reservation.EventID,
		"exhibitor_id":   reservation.ExhibitorID,
		"invoice_number": invoice.Number,
		"amount":         txn.Amount,
	})
	return &ConfirmResult{Transaction: &txn, Reservation: reservation, Invoice: invoice}, nil
}

func confirmReservation(id uint) (*models.Reservation, error) {
	reservation, err := reservations.Confirm(id)
	if err == nil {
		return reservation, nil
	}
	if errors.Is(err, reservations.ErrInvalidState) {
		// already confirmed by the racing path
		existing, gerr := reservations.Get(id)
		if gerr != nil {
			return nil, gerr
		}
		if existing.Status == types.RESERVATION_CONFIRMED || existing.Status == types.RESERVATION_COMPLETED {
			return existing, nil
		}
	}
	return nil, err
}

func ensurePaidInvoice(txn *models.Transaction, reservation *models.Reservation) (*models.Invoice, error) {
	gdb := db.GetDb()
	cfg := config.Get()
	var invoice models.Invoice
	err := gdb.
		Model(&models.Invoice{}).
		Where("reservation_id = ?", reservation.ID).
		First(&invoice).
		Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		tax := int64(math.Floor(float64(txn.Amount)*cfg.TaxRate + 0.5))
		invoice = models.Invoice{
			ReservationID: reservation.ID,
			Number:        utils.NewInvoiceNumber(),
			Amount:        txn.Amount,
			TaxAmount:     tax,
			Total:         txn.Amount + tax,
			Currency:      txn.Currency,
			Status:        types.INVOICE_DRAFT,
			DueDate:       time.Now().AddDate(0, 0, cfg.InvoiceDueDays),
		}
		if err := gdb.Create(&invoice).Error; err != nil {
			// a racing confirm may have created it first
			if ferr := gdb.
				Model(&models.Invoice{}).
				Where("reservation_id = ?", reservation.ID).
				First(&invoice).
				Error; ferr != nil {
				return nil, err
			}
		}
	}
	if invoice.Status != types.INVOICE_PAID {
		if err := gdb.
			Model(&models.Invoice{}).
			Where("id = ? AND status = ?", invoice.ID, types.INVOICE_DRAFT).
			Update("status", types.INVOICE_SENT).
			Error; err != nil {
			return nil, err
		}
		if err := gdb.
			Model(&models.Invoice{}).
			Where("id = ? AND status IN (?)", invoice.ID, []types.InvoiceStatus{
				types.INVOICE_SENT,
				types.INVOICE_OVERDUE,
			}).
			Update("status", types.INVOICE_PAID).
			Error; err != nil {
			return nil, err
		}
		invoice.Status = types.INVOICE_PAID
	}
	return &invoice, nil
}

// Refund issues a partial or full refund against a completed transaction.
// The booth is deliberately left booked; releasing it is a separate,
// explicit admin action.
func Refund(ctx context.Context, transactionID uuid.UUID, amount *float64) (*models.Transaction, error) {
	gdb := db.GetDb()
	var txn models.Transaction
	err := gdb.
		Model(&models.Transaction{}).
		Where("id = ?", transactionID).
		First(&txn).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if txn.PaymentIntentId == nil {
		return nil, ErrNoIntent
	}
	if !txn.Status.CanTransitionTo(types.TRANSACTION_REFUNDED) {
		return nil, ErrInvalidState
	}

	var minor int64
	if amount != nil {
		minor = ToMinorUnits(*amount)
		if minor <= 0 || minor > txn.Amount {
			return nil, fmt.Errorf("%w: refund amount out of range", ErrInvalidState)
		}
	}
	refundID, err := getProvider().CreateRefund(ctx, *txn.PaymentIntentId, minor)
	if err != nil {
		return nil, fmt.Errorf("%w: creating refund: %s", ErrUpstream, err.Error())
	}

	res := gdb.
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", txn.ID, types.TRANSACTION_COMPLETED).
		Updates(map[string]any{"status": types.TRANSACTION_REFUNDED, "refund_id": refundID})
	if res.Error != nil {
		return nil, res.Error
	}
	txn.Status = types.TRANSACTION_REFUNDED
	txn.RefundId = &refundID
	log.Printf("[Refund] Transaction %s refunded (%s)\n", txn.ID.String(), refundID)
	return &txn, nil
}
