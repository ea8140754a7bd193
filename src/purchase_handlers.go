package main

import (
	"net/http"
	"xbs/src/db"
	"xbs/src/middlewares"
	"xbs/src/models"
	"xbs/src/payments"
	"xbs/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func purchaseHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/purchases", func(ctx *gin.Context) {
			var body types.CreatePurchaseRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			userId := ctx.GetUint("id")
			intent, err := payments.CreatePurchaseIntent(ctx, body.ReservationID, userId)
			if err != nil {
				mapDomainError(ctx, err)
				return
			}
			apiData(ctx, http.StatusOK, intent)
		}).
		POST("/purchases/confirm", func(ctx *gin.Context) {
			var body types.ConfirmPaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			result, err := payments.ConfirmPurchase(ctx, body.PaymentIntentID)
			if err != nil {
				mapDomainError(ctx, err)
				return
			}
			apiData(ctx, http.StatusOK, result)
		}).
		GET("/transactions/:id", func(ctx *gin.Context) {
			idParam := ctx.Params.ByName("id")
			txnId, err := uuid.Parse(idParam)
			if err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			gdb := db.GetDb()
			var txn models.Transaction
			if err := gdb.
				Model(&models.Transaction{}).
				Where("id = ?", txnId).
				Preload("Reservation").
				First(&txn).
				Error; err != nil {
				apiError(ctx, http.StatusNotFound, types.CODE_NOT_FOUND, "transaction not found")
				return
			}
			userId := ctx.GetUint("id")
			if txn.Reservation.ExhibitorID != userId && ctx.GetString("role") != "admin" {
				apiError(ctx, http.StatusForbidden, types.CODE_FORBIDDEN, "transaction belongs to another user")
				return
			}
			apiData(ctx, http.StatusOK, txn)
		}).
		POST("/transactions/:id/refund", middlewares.AdminOnly, func(ctx *gin.Context) {
			idParam := ctx.Params.ByName("id")
			txnId, err := uuid.Parse(idParam)
			if err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			// body is optional; no amount means a full refund
			var body types.RefundRequestBody
			if ctx.Request.ContentLength > 0 {
				if err := ctx.ShouldBindJSON(&body); err != nil {
					apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
					return
				}
			}
			txn, err := payments.Refund(ctx, txnId, body.Amount)
			if err != nil {
				mapDomainError(ctx, err)
				return
			}
			apiData(ctx, http.StatusOK, txn)
		})
	return g
}
