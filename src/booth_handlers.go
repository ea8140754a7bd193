package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
	"xbs/src/config"
	"xbs/src/db"
	"xbs/src/ledger"
	"xbs/src/lib"
	"xbs/src/middlewares"
	"xbs/src/models"
	"xbs/src/reservations"
	"xbs/src/types"
	"xbs/src/utils"

	"github.com/gin-gonic/gin"
)

func boothPublicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.GET("/events/:id/booths", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
			return
		}
		var filters types.BoothQueryFilters
		if err := ctx.ShouldBindQuery(&filters); err != nil {
			apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
			return
		}

		cacheKey := boothCacheKey(params.ID, &filters)
		if cached := cachedBoothList(ctx, cacheKey); cached != nil {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}

		booths, err := utils.GetBoothsForEvent(params.ID, &filters)
		if err != nil {
			apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
			return
		}
		body, _ := json.Marshal(gin.H{"data": booths, "count": len(booths)})
		cacheBoothList(ctx, cacheKey, body)
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
	})
	return apiv1
}

func boothHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/booths/:id/reserve", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			var body types.ReserveBoothRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			userId := ctx.GetUint("id")
			hold := config.Get().HoldDuration
			reservation, err := reservations.Reserve(params.ID, body.EventID, userId, hold)
			if err != nil {
				if errors.Is(err, reservations.ErrBoothUnavailable) {
					code := types.CODE_BOOTH_UNAVAILABLE
					if boothStatus(params.ID) == types.BOOTH_RESERVED {
						code = types.CODE_BOOTH_RESERVED
					}
					apiError(ctx, http.StatusConflict, code, "booth cannot be reserved right now")
					return
				}
				mapDomainError(ctx, err)
				return
			}
			apiData(ctx, http.StatusCreated, gin.H{
				"reservation_id": reservation.ID,
				"expires_at":     reservation.ExpiresAt,
			})
		}).
		POST("/booths/:id/release", middlewares.AdminOnly, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			active, err := reservations.IsBoothActivelyReserved(params.ID)
			if err != nil {
				apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
				return
			}
			if active {
				apiError(ctx, http.StatusConflict, types.CODE_BOOTH_RESERVED, "booth has an active reservation; cancel it first")
				return
			}
			if err := ledger.Release(params.ID); err != nil {
				if errors.Is(err, ledger.ErrNotFound) {
					apiError(ctx, http.StatusNotFound, types.CODE_NOT_FOUND, "booth not found")
					return
				}
				apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func boothStatus(boothID uint) types.BoothStatus {
	gdb := db.GetDb()
	var booth models.Booth
	if err := gdb.
		Model(&models.Booth{}).
		Where("id = ?", boothID).
		Select("status").
		First(&booth).
		Error; err != nil {
		return ""
	}
	return booth.Status
}

func boothCacheKey(eventID uint, filters *types.BoothQueryFilters) string {
	return fmt.Sprintf("booths:%d:%s:%s", eventID, filters.Status, filters.SizeClass)
}

func cachedBoothList(ctx context.Context, key string) []byte {
	rdb := lib.GetRedisClient()
	if rdb == nil {
		return nil
	}
	val, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return val
}

func cacheBoothList(ctx context.Context, key string, body []byte) {
	rdb := lib.GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.Set(ctx, key, body, 10*time.Second).Err(); err != nil {
		log.Printf("[redis] Error caching booth list: %s\n", err.Error())
	}
}
