package mailer

import (
	"fmt"
	"log"
	"xbs/src/config"
	"xbs/src/lib"
)

// Notify sends a notification email. Failures are logged and swallowed so
// downstream email trouble never blocks a state transition.
func Notify(to, subject, body string) {
	cfg := config.Get()
	input := &lib.SendMailInput{
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
		To:       []string{to},
		Subject:  subject,
		Body:     body,
	}
	if err := lib.SendMail(input); err != nil {
		log.Printf("[mailer] Error sending %q to %s: %s\n", subject, to, err.Error())
	}
}

func ReservationCreated(to, boothNumber string, minutes int) {
	Notify(to,
		"Booth reservation created",
		fmt.Sprintf("Booth %s is on hold for you. Complete payment within %d minutes to keep it.", boothNumber, minutes))
}

func PaymentConfirmed(to, boothNumber, invoiceNumber string) {
	Notify(to,
		"Payment confirmed",
		fmt.Sprintf("Your payment for booth %s is confirmed. Invoice %s has been issued.", boothNumber, invoiceNumber))
}

func ReservationCancelled(to, boothNumber string) {
	Notify(to,
		"Reservation cancelled",
		fmt.Sprintf("Your reservation for booth %s has been cancelled. The booth is available again.", boothNumber))
}
