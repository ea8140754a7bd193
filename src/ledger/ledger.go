// Package ledger owns booth status. All transitions go through here; the
// reserve path is a single conditional UPDATE so two concurrent requests
// for the same booth can never both succeed.
package ledger

import (
	"errors"
	"log"
	"xbs/src/bus"
	"xbs/src/db"
	"xbs/src/lib"
	"xbs/src/models"
	"xbs/src/types"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("booth not found")
	ErrNotAvailable = errors.New("booth is not available")
)

// TryReserve atomically moves the booth from available to reserved. The
// compare-and-swap lives in the WHERE clause; RowsAffected == 0 means some
// other caller (or an admin hold) got there first.
func TryReserve(boothID, eventID uint) error {
	gdb := db.GetDb()
	res := gdb.
		Model(&models.Booth{}).
		Where("id = ? AND event_id = ? AND status = ?", boothID, eventID, types.BOOTH_AVAILABLE).
		Update("status", types.BOOTH_RESERVED)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := gdb.
			Model(&models.Booth{}).
			Where("id = ? AND event_id = ?", boothID, eventID).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrNotAvailable
	}
	publishStatus(boothID, eventID, types.BOOTH_RESERVED)
	return nil
}

// MarkBooked moves the booth to booked. Only the payment orchestrator calls
// this, after funds are captured, so the transition is unconditional and
// idempotent.
func MarkBooked(boothID uint) error {
	return setStatus(boothID, types.BOOTH_BOOKED)
}

// Release returns the booth to the pool on expiry or cancellation.
func Release(boothID uint) error {
	return setStatus(boothID, types.BOOTH_AVAILABLE)
}

func setStatus(boothID uint, status types.BoothStatus) error {
	gdb := db.GetDb()
	var booth models.Booth
	err := gdb.
		Model(&models.Booth{}).
		Where("id = ?", boothID).
		First(&booth).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if booth.Status == status {
		return nil
	}
	if err := gdb.
		Model(&models.Booth{}).
		Where("id = ?", boothID).
		Update("status", status).
		Error; err != nil {
		return err
	}
	publishStatus(boothID, booth.EventID, status)
	return nil
}

func publishStatus(boothID, eventID uint, status types.BoothStatus) {
	log.Printf("[Ledger] Booth %d -> %s\n", boothID, status)
	bus.Publish(bus.TopicBoothStatusChanged, map[string]any{
		"booth_id":   boothID,
		"event_id":   eventID,
		"new_status": string(status),
	})
	go lib.BroadcastBoothStatus(eventID, boothID, string(status))
}
