package main

import (
	"net/http"
	"xbs/src/db"
	"xbs/src/middlewares"
	"xbs/src/models"
	"xbs/src/reservations"
	"xbs/src/types"
	"xbs/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func eventPublicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.GET("/events", func(ctx *gin.Context) {
		gdb := db.GetDb()
		var events []models.Event
		err := gdb.
			Model(&models.Event{}).
			Where("status = ?", types.EVENT_PUBLISHED).
			Order("starts_at asc").
			Limit(100).
			Find(&events).
			Error
		if err != nil {
			apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
	})
	return apiv1
}

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events", middlewares.AdminOnly, func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			userId := ctx.GetUint("id")
			id, err := utils.CreateNewEvent(&body, userId)
			if err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			apiData(ctx, http.StatusCreated, gin.H{"id": id})
		}).
		POST("/events/:id/booths", middlewares.AdminOnly, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			var body types.CreateBoothsRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			booths, err := utils.CreateBoothsForEvent(params.ID, body.Booths)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					apiError(ctx, http.StatusNotFound, types.CODE_NOT_FOUND, "event not found")
					return
				}
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booths, "count": len(booths)})
		}).
		POST("/events/:id/publish", middlewares.AdminOnly, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			gdb := db.GetDb()
			res := gdb.
				Model(&models.Event{}).
				Where("id = ? AND status = ?", params.ID, types.EVENT_DRAFT).
				Update("status", types.EVENT_PUBLISHED)
			if res.Error != nil {
				apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
				return
			}
			if res.RowsAffected == 0 {
				apiError(ctx, http.StatusNotFound, types.CODE_NOT_FOUND, "no draft event with that id")
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/events/:id/complete", middlewares.AdminOnly, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			gdb := db.GetDb()
			res := gdb.
				Model(&models.Event{}).
				Where("id = ? AND status = ?", params.ID, types.EVENT_PUBLISHED).
				Update("status", types.EVENT_COMPLETED)
			if res.Error != nil {
				apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
				return
			}
			if res.RowsAffected == 0 {
				apiError(ctx, http.StatusNotFound, types.CODE_NOT_FOUND, "no published event with that id")
				return
			}
			if err := reservations.CompleteForEvent(params.ID); err != nil {
				apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
