package main

import (
	"errors"
	"net/http"
	"xbs/src/payments"
	"xbs/src/reservations"
	"xbs/src/types"

	"github.com/gin-gonic/gin"
)

func apiData(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, gin.H{"data": data})
}

func apiError(ctx *gin.Context, status int, code, message string) {
	ctx.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// mapDomainError translates typed domain results into the machine-readable
// envelope. Anything unrecognized is an internal error with no partial
// state exposed.
func mapDomainError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, reservations.ErrNotFound) || errors.Is(err, payments.ErrNotFound):
		apiError(ctx, http.StatusNotFound, types.CODE_NOT_FOUND, "record not found")
	case errors.Is(err, reservations.ErrBoothUnavailable):
		apiError(ctx, http.StatusConflict, types.CODE_BOOTH_UNAVAILABLE, "booth is not available")
	case errors.Is(err, reservations.ErrExpired):
		apiError(ctx, http.StatusBadRequest, types.CODE_RESERVATION_EXPIRED, "reservation has expired")
	case errors.Is(err, reservations.ErrInvalidState):
		apiError(ctx, http.StatusBadRequest, types.CODE_INVALID_RESERVATION, "reservation is not in a valid state")
	case errors.Is(err, payments.ErrForbidden):
		apiError(ctx, http.StatusForbidden, types.CODE_FORBIDDEN, "reservation belongs to another user")
	case errors.Is(err, payments.ErrPaymentNotCompleted):
		apiError(ctx, http.StatusBadRequest, types.CODE_PAYMENT_NOT_COMPLETED, err.Error())
	case errors.Is(err, payments.ErrNoIntent) || errors.Is(err, payments.ErrInvalidState):
		apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
	case errors.Is(err, payments.ErrUpstream):
		apiError(ctx, http.StatusBadGateway, types.CODE_UPSTREAM_ERROR, err.Error())
	default:
		apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
	}
}
