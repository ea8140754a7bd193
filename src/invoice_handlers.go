package main

import (
	"net/http"
	"xbs/src/db"
	"xbs/src/models"
	"xbs/src/types"

	"github.com/gin-gonic/gin"
)

func invoiceHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/invoices", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			gdb := db.GetDb()
			var invoices []models.Invoice
			q := gdb.
				Model(&models.Invoice{}).
				Joins("JOIN reservations ON reservations.id = invoices.reservation_id").
				Order("invoices.created_at DESC").
				Limit(50)
			if ctx.GetString("role") != "admin" {
				q = q.Where("reservations.exhibitor_id = ?", userId)
			}
			if err := q.Find(&invoices).Error; err != nil {
				apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": invoices, "count": len(invoices)})
		}).
		GET("/invoices/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			gdb := db.GetDb()
			var invoice models.Invoice
			if err := gdb.
				Model(&models.Invoice{}).
				Where("id = ?", params.ID).
				Preload("Reservation").
				First(&invoice).
				Error; err != nil {
				apiError(ctx, http.StatusNotFound, types.CODE_NOT_FOUND, "invoice not found")
				return
			}
			userId := ctx.GetUint("id")
			if invoice.Reservation.ExhibitorID != userId && ctx.GetString("role") != "admin" {
				apiError(ctx, http.StatusForbidden, types.CODE_FORBIDDEN, "invoice belongs to another user")
				return
			}
			apiData(ctx, http.StatusOK, invoice)
		})
	return g
}
