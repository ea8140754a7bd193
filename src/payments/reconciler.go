package payments

import (
	"context"
	"errors"
	"log"
	"xbs/src/bus"
	"xbs/src/db"
	"xbs/src/models"
	"xbs/src/reservations"
	"xbs/src/types"

	"gorm.io/gorm"
)

// The reconciler consumes asynchronous provider notifications. The webhook
// path and the synchronous confirm path can race, so every handler here is
// idempotent against repeated or already-applied events.

// ApplySucceeded reconciles a payment_intent.succeeded notification. When
// the synchronous path already completed the intent the confirm sequence
// no-ops step by step; no duplicate invoice can appear.
func ApplySucceeded(ctx context.Context, intentID string) error {
	_, err := ConfirmPurchase(ctx, intentID)
	return err
}

// ApplyFailed marks the transaction failed. The reservation stays pending;
// the exhibitor may retry payment or let the hold expire.
func ApplyFailed(ctx context.Context, intentID string) error {
	gdb := db.GetDb()
	var txn models.Transaction
	err := gdb.
		Model(&models.Transaction{}).
		Where("payment_intent_id = ?", intentID).
		First(&txn).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	res := gdb.
		Model(&models.Transaction{}).
		Where("id = ? AND status IN (?)", txn.ID, []types.TransactionStatus{
			types.TRANSACTION_PENDING,
			types.TRANSACTION_PROCESSING,
		}).
		Update("status", types.TRANSACTION_FAILED)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("[Reconciler] Ignoring failed notification for %s transaction %s\n", txn.Status, txn.ID.String())
	}
	return nil
}

// ApplyCanceled cancels the reservation and releases the booth when the
// provider reports the intent canceled and the reservation is still pending.
func ApplyCanceled(ctx context.Context, intentID string) error {
	gdb := db.GetDb()
	var txn models.Transaction
	err := gdb.
		Model(&models.Transaction{}).
		Where("payment_intent_id = ?", intentID).
		First(&txn).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := gdb.
		Model(&models.Transaction{}).
		Where("id = ? AND status IN (?)", txn.ID, []types.TransactionStatus{
			types.TRANSACTION_PENDING,
			types.TRANSACTION_PROCESSING,
		}).
		Update("status", types.TRANSACTION_FAILED).
		Error; err != nil {
		return err
	}

	reservation, err := reservations.Get(txn.ReservationID)
	if err != nil {
		if errors.Is(err, reservations.ErrNotFound) {
			return nil
		}
		return err
	}
	if reservation.Status != types.RESERVATION_PENDING {
		return nil
	}
	if _, err := reservations.Cancel(reservation.ID); err != nil {
		return err
	}
	bus.Publish(bus.TopicBoothReleased, map[string]any{
		"booth_id":       reservation.BoothID,
		"event_id":       reservation.EventID,
		"reservation_id": reservation.ID,
	})
	return nil
}
