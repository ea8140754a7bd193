package main

import (
	"net/http"
	"xbs/src/db"
	"xbs/src/models"
	"xbs/src/reservations"
	"xbs/src/types"

	"github.com/gin-gonic/gin"
)

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/reservations", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			gdb := db.GetDb()
			var list []models.Reservation
			err := gdb.
				Model(&models.Reservation{}).
				Where("exhibitor_id = ?", userId).
				Preload("Booth").
				Preload("Event").
				Order("created_at DESC").
				Limit(50).
				Find(&list).
				Error
			if err != nil {
				apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
				return
			}
			// lazy expiry so listings never show stale holds
			for i := range list {
				if _, err := reservations.ExpireIfDue(&list[i]); err != nil {
					apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": list, "count": len(list)})
		}).
		GET("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			reservation, err := reservations.Get(params.ID)
			if err != nil {
				mapDomainError(ctx, err)
				return
			}
			userId := ctx.GetUint("id")
			if reservation.ExhibitorID != userId && ctx.GetString("role") != "admin" {
				apiError(ctx, http.StatusForbidden, types.CODE_FORBIDDEN, "reservation belongs to another user")
				return
			}
			apiData(ctx, http.StatusOK, reservation)
		}).
		PUT("/reservations/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			existing, err := reservations.Get(params.ID)
			if err != nil {
				mapDomainError(ctx, err)
				return
			}
			userId := ctx.GetUint("id")
			if existing.ExhibitorID != userId && ctx.GetString("role") != "admin" {
				apiError(ctx, http.StatusForbidden, types.CODE_FORBIDDEN, "reservation belongs to another user")
				return
			}
			reservation, err := reservations.Cancel(params.ID)
			if err != nil {
				mapDomainError(ctx, err)
				return
			}
			apiData(ctx, http.StatusOK, reservation)
		})
	return g
}
