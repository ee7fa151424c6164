package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/api/http/converter"
	"github.com/manitto-app/manitto-server/internal/service"
)

type CheerController struct {
	cheers service.CheerInteractor
}

func NewCheerController(cheers service.CheerInteractor) *CheerController {
	return &CheerController{cheers: cheers}
}

func (c *CheerController) GetMessage(ctx *gin.Context) {
	cheerType, err := c.cheers.Message(ctx.Request.Context(), ctx.Param("type"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "ok", gin.H{
		"type":    cheerType.Name,
		"message": cheerType.Message,
	})
}

func (c *CheerController) SendCheer(ctx *gin.Context) {
	type request struct {
		RoomID    string `json:"roomId" binding:"required"`
		CheerType string `json:"cheerType" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}

	code, ok := userCode(ctx)
	if !ok {
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondValidationError(ctx, "roomId, cheerType and message are required")
		return
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		respondValidationError(ctx, "invalid room id")
		return
	}

	count, err := c.cheers.Send(ctx.Request.Context(), code, roomID, req.CheerType, req.Message)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "cheer sent", gin.H{"todaysCount": count})
}

func (c *CheerController) GetResult(ctx *gin.Context) {
	code, ok := userCode(ctx)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(ctx)
	if !ok {
		return
	}

	result, err := c.cheers.Result(ctx.Request.Context(), code, roomID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "ok", converter.ResultToApi(result))
}
