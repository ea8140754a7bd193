package main

import (
	"io"
	"log"
	"net/http"
	"xbs/src/config"
	"xbs/src/lib"
	"xbs/src/payments"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/tidwall/gjson"
)

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := config.Get().StripeWebhookSecret
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		if !lib.MarkProviderEventSeen(ctx, event.ID) {
			log.Printf("[StripeEvent] %s already processed, skipping\n", event.ID)
			ctx.Status(http.StatusOK)
			return
		}
		intentId := gjson.GetBytes(event.Data.Raw, "id").String()
		switch event.Type {
		case "payment_intent.succeeded":
			if err := payments.ApplySucceeded(ctx, intentId); err != nil {
				log.Printf("[Stripe] Error applying succeeded intent %s: %s\n", intentId, err.Error())
			}
		case "payment_intent.payment_failed":
			if err := payments.ApplyFailed(ctx, intentId); err != nil {
				log.Printf("[Stripe] Error applying failed intent %s: %s\n", intentId, err.Error())
			}
		case "payment_intent.canceled":
			if err := payments.ApplyCanceled(ctx, intentId); err != nil {
				log.Printf("[Stripe] Error applying canceled intent %s: %s\n", intentId, err.Error())
			}
		default:
			log.Printf("[StripeEvent] ignoring event type %s\n", event.Type)
		}
		// the webhook is acked even when applying fails; stripe retries on
		// non-2xx and the reconciler converges from the provider state anyway
		ctx.Status(http.StatusOK)
	})
	return apiv1
}
