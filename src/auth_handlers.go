package main

import (
	"net/http"
	"xbs/src/db"
	"xbs/src/models"
	"xbs/src/types"
	"xbs/src/utils"

	"github.com/gin-gonic/gin"
)

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		POST("/auth/register", func(ctx *gin.Context) {
			var body types.RegisterRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			gdb := db.GetDb()
			user := models.User{
				Email: body.Email,
				Name:  body.Name,
				Role:  "exhibitor",
			}
			if err := gdb.Create(&user).Error; err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, "account already exists")
				return
			}
			apiData(ctx, http.StatusCreated, gin.H{"id": user.ID})
		}).
		POST("/auth/login", func(ctx *gin.Context) {
			var body types.LoginRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apiError(ctx, http.StatusBadRequest, types.CODE_VALIDATION_ERROR, err.Error())
				return
			}
			gdb := db.GetDb()
			var user models.User
			if err := gdb.
				Model(&models.User{}).
				Where("email = ?", body.Email).
				First(&user).
				Error; err != nil {
				apiError(ctx, http.StatusNotFound, types.CODE_NOT_FOUND, "no account with that email")
				return
			}
			token, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
			if err != nil {
				apiError(ctx, http.StatusInternalServerError, types.CODE_INTERNAL_ERROR, "something went wrong")
				return
			}
			apiData(ctx, http.StatusOK, gin.H{"token": token})
		})
	return apiv1
}
