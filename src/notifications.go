package main

import (
	"log"
	"xbs/src/bus"
	"xbs/src/config"
	"xbs/src/db"
	"xbs/src/lib/mailer"
	"xbs/src/models"
)

// notificationHandlers subscribes the mailer to the lifecycle topics. Email is
// best-effort: lookups and sends log failures and move on.
func notificationHandlers(b *bus.Bus) {
	b.Subscribe(bus.TopicReservationCreated, "mail-reservation-created", func(ev bus.Event) {
		email, boothNumber, ok := notificationContext(ev)
		if !ok {
			return
		}
		minutes := int(config.Get().HoldDuration.Minutes())
		mailer.ReservationCreated(email, boothNumber, minutes)
	})
	b.Subscribe(bus.TopicPaymentCompleted, "mail-payment-completed", func(ev bus.Event) {
		email, boothNumber, ok := notificationContext(ev)
		if !ok {
			return
		}
		invoiceNumber, _ := ev.Payload["invoice_number"].(string)
		mailer.PaymentConfirmed(email, boothNumber, invoiceNumber)
	})
	b.Subscribe(bus.TopicReservationCanceled, "mail-reservation-cancelled", func(ev bus.Event) {
		email, boothNumber, ok := notificationContext(ev)
		if !ok {
			return
		}
		mailer.ReservationCancelled(email, boothNumber)
	})
}

func notificationContext(ev bus.Event) (email string, boothNumber string, ok bool) {
	exhibitorId, okId := toUint(ev.Payload["exhibitor_id"])
	boothId, okBooth := toUint(ev.Payload["booth_id"])
	if !okId || !okBooth {
		log.Printf("[notifications] Malformed payload on %s\n", ev.Topic)
		return "", "", false
	}
	gdb := db.GetDb()
	var user models.User
	if err := gdb.
		Model(&models.User{}).
		Where("id = ?", exhibitorId).
		First(&user).
		Error; err != nil {
		log.Printf("[notifications] Error loading user %d: %s\n", exhibitorId, err.Error())
		return "", "", false
	}
	var booth models.Booth
	if err := gdb.
		Model(&models.Booth{}).
		Where("id = ?", boothId).
		First(&booth).
		Error; err != nil {
		log.Printf("[notifications] Error loading booth %d: %s\n", boothId, err.Error())
		return "", "", false
	}
	return user.Email, booth.Number, true
}

func toUint(v any) (uint, bool) {
	switch n := v.(type) {
	case uint:
		return n, true
	case int:
		return uint(n), true
	case int64:
		return uint(n), true
	case float64:
		return uint(n), true
	default:
		return 0, false
	}
}
