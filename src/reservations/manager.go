// Package reservations owns the reservation state machine:
//
//	(none) -> pending -> confirmed -> completed
//	             |  \
//	       expire|   cancel
//	             v      v
//	         cancelled  cancelled
//
// Expiry is lazy: every operation that reads a pending reservation re-checks
// expires_at and applies the cancel/release side effects inline, so no
// background sweeper is needed for correctness. The gocron sweep in boot
// only keeps the floor plan fresh.
package reservations

import (
	"errors"
	"fmt"
	"log"
	"time"
	"xbs/src/bus"
	"xbs/src/db"
	"xbs/src/ledger"
	"xbs/src/models"
	"xbs/src/types"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("reservation not found")
	ErrExpired          = errors.New("reservation has expired")
	ErrInvalidState     = errors.New("reservation is not in a valid state for this operation")
	ErrBoothUnavailable = errors.New("booth is unavailable")
)

// Reserve places a hold on the booth. The ledger transition runs first so a
// lost race leaves no orphan reservation row behind.
func Reserve(boothID, eventID, exhibitorID uint, hold time.Duration) (*models.Reservation, error) {
	if err := ledger.TryReserve(boothID, eventID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, ledger.ErrNotAvailable) {
			return nil, ErrBoothUnavailable
		}
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(hold)
	reservation := models.Reservation{
		BoothID:     boothID,
		EventID:     eventID,
		ExhibitorID: exhibitorID,
		Status:      types.RESERVATION_PENDING,
		ReservedAt:  now,
		ExpiresAt:   &expiresAt,
	}
	gdb := db.GetDb()
	if err := gdb.Create(&reservation).Error; err != nil {
		log.Printf("Error creating Reservation for booth %d: %s\n", boothID, err.Error())
		// the booth was already flipped to reserved; hand it back
		if rerr := ledger.Release(boothID); rerr != nil {
			log.Printf("Error releasing booth %d after failed insert: %s\n", boothID, rerr.Error())
		}
		return nil, err
	}

	bus.Publish(bus.TopicReservationCreated, map[string]any{
		"reservation_id": reservation.ID,
		"booth_id":       boothID,
		"event_id":       eventID,
		"exhibitor_id":   exhibitorID,
		"expires_at":     expiresAt,
	})
	return &reservation, nil
}

// Get loads a reservation and applies lazy expiry before returning it.
func Get(id uint) (*models.Reservation, error) {
	gdb := db.GetDb()
	var reservation models.Reservation
	err := gdb.
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Preload("Booth").
		First(&reservation).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := ExpireIfDue(&reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ExpireIfDue treats a pending reservation past expires_at as cancelled,
// performing the release side effect before the caller proceeds. Reports
// whether the reservation was expired by this call or an earlier one.
func ExpireIfDue(r *models.Reservation) (bool, error) {
	if r.Status != types.RESERVATION_PENDING || r.ExpiresAt == nil {
		return false, nil
	}
	if time.Now().Before(*r.ExpiresAt) {
		return false, nil
	}
	gdb := db.GetDb()
	res := gdb.
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", r.ID, types.RESERVATION_PENDING).
		Updates(map[string]any{"status": types.RESERVATION_CANCELED, "expires_at": nil})
	if res.Error != nil {
		return false, res.Error
	}
	r.Status = types.RESERVATION_CANCELED
	r.ExpiresAt = nil
	if res.RowsAffected == 0 {
		// another caller expired it first; the release already ran
		return true, nil
	}
	if err := ledger.Release(r.BoothID); err != nil {
		log.Printf("Error releasing booth %d for expired reservation %d: %s\n", r.BoothID, r.ID, err.Error())
	}
	bus.Publish(bus.TopicReservationCanceled, map[string]any{
		"reservation_id": r.ID,
		"booth_id":       r.BoothID,
		"event_id":       r.EventID,
		"exhibitor_id":   r.ExhibitorID,
		"reason":         "expired",
	})
	return true, nil
}

// Confirm moves a pending, unexpired reservation to confirmed. It does not
// mark the booth booked; the payment orchestrator does that once funds are
// captured, so payment and booth state stay independently retryable.
func Confirm(id uint) (*models.Reservation, error) {
	gdb := db.GetDb()
	var loaded models.Reservation
	err := gdb.
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Preload("Booth").
		First(&loaded).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	reservation := &loaded
	expired, err := ExpireIfDue(reservation)
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, ErrExpired
	}
	if reservation.Status != types.RESERVATION_PENDING {
		return nil, ErrInvalidState
	}

	now := time.Now()
	res := gdb.
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, types.RESERVATION_PENDING).
		Updates(map[string]any{
			"status":       types.RESERVATION_CONFIRMED,
			"confirmed_at": now,
			"expires_at":   nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidState
	}
	reservation.Status = types.RESERVATION_CONFIRMED
	reservation.ConfirmedAt = &now
	reservation.ExpiresAt = nil
	return reservation, nil
}

// Cancel cancels a pending or confirmed reservation and releases the booth.
// Cancelling an already-cancelled reservation is a no-op success.
func Cancel(id uint) (*models.Reservation, error) {
	reservation, err := Get(id)
	if err != nil {
		return nil, err
	}
	if reservation.Status == types.RESERVATION_CANCELED {
		return reservation, nil
	}
	if reservation.Status == types.RESERVATION_COMPLETED {
		return nil, ErrInvalidState
	}

	gdb := db.GetDb()
	res := gdb.
		Model(&models.Reservation{}).
		Where("id = ? AND status IN (?)", id, []types.ReservationStatus{
			types.RESERVATION_PENDING,
			types.RESERVATION_CONFIRMED,
		}).
		Updates(map[string]any{"status": types.RESERVATION_CANCELED, "expires_at": nil})
	if res.Error != nil {
		return nil, res.Error
	}
	reservation.Status = types.RESERVATION_CANCELED
	reservation.ExpiresAt = nil
	if res.RowsAffected == 0 {
		return reservation, nil
	}
	if err := ledger.Release(reservation.BoothID); err != nil {
		log.Printf("Error releasing booth %d for cancelled reservation %d: %s\n", reservation.BoothID, id, err.Error())
	}
	bus.Publish(bus.TopicReservationCanceled, map[string]any{
		"reservation_id": reservation.ID,
		"booth_id":       reservation.BoothID,
		"event_id":       reservation.EventID,
		"exhibitor_id":   reservation.ExhibitorID,
		"reason":         "cancelled",
	})
	return reservation, nil
}

// IsBoothActivelyReserved reports whether an unexpired pending or any
// confirmed reservation exists for the booth.
func IsBoothActivelyReserved(boothID uint) (bool, error) {
	gdb := db.GetDb()
	var count int64
	err := gdb.
		Model(&models.Reservation{}).
		Where("booth_id = ?", boothID).
		Where(
			gdb.Where("status = ? AND (expires_at IS NULL OR expires_at > ?)", types.RESERVATION_PENDING, time.Now()).
				Or("status = ?", types.RESERVATION_CONFIRMED),
		).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SweepExpired proactively releases long-idle expired holds. Correctness
// never depends on it running.
func SweepExpired() (int, error) {
	gdb := db.GetDb()
	var stale []models.Reservation
	err := gdb.
		Model(&models.Reservation{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", types.RESERVATION_PENDING, time.Now()).
		Limit(100).
		Find(&stale).
		Error
	if err != nil {
		return 0, err
	}
	released := 0
	for i := range stale {
		expired, err := ExpireIfDue(&stale[i])
		if err != nil {
			log.Printf("Error expiring reservation %d: %s\n", stale[i].ID, err.Error())
			continue
		}
		if expired {
			released++
		}
	}
	if released > 0 {
		log.Printf("[Sweep] Released %d expired holds\n", released)
	}
	return released, nil
}

// CompleteForEvent marks confirmed reservations of a finished event as
// completed (terminal).
func CompleteForEvent(eventID uint) error {
	gdb := db.GetDb()
	res := gdb.
		Model(&models.Reservation{}).
		Where("event_id = ? AND status = ?", eventID, types.RESERVATION_CONFIRMED).
		Update("status", types.RESERVATION_COMPLETED)
	if res.Error != nil {
		return fmt.Errorf("error completing reservations for event %d: %w", eventID, res.Error)
	}
	return nil
}
