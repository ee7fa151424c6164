package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/manitto-app/manitto-server/internal/service"
)

type UserController struct {
	users service.UserInteractor
}

func NewUserController(users service.UserInteractor) *UserController {
	return &UserController{users: users}
}

func (c *UserController) CreateUser(ctx *gin.Context) {
	type request struct {
		Nickname string `json:"nickname" binding:"required"`
		DeviceID string `json:"deviceId" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondValidationError(ctx, "nickname and deviceId are required")
		return
	}

	user, err := c.users.CreateUser(ctx.Request.Context(), req.Nickname, req.DeviceID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "user created", gin.H{"code": user.Code})
}

func (c *UserController) GetUser(ctx *gin.Context) {
	deviceID := ctx.Query("deviceId")
	if deviceID == "" {
		respondValidationError(ctx, "deviceId query parameter is required")
		return
	}

	user, err := c.users.GetUserByDevice(ctx.Request.Context(), deviceID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "ok", gin.H{
		"code":     user.Code,
		"nickname": user.Nickname,
	})
}
