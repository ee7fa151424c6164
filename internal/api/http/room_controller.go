package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/api/http/converter"
	"github.com/manitto-app/manitto-server/internal/service"
)

// headerUserCode carries the caller's public user code on every
// authenticated request.
const headerUserCode = "userCode"

type RoomController struct {
	rooms service.RoomInteractor
}

func NewRoomController(rooms service.RoomInteractor) *RoomController {
	return &RoomController{rooms: rooms}
}

func userCode(ctx *gin.Context) (string, bool) {
	code := ctx.GetHeader(headerUserCode)
	if code == "" {
		respondValidationError(ctx, "userCode header is required")
		return "", false
	}
	return code, true
}

func roomIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("roomId"))
	if err != nil {
		respondValidationError(ctx, "invalid room id")
		return uuid.Nil, false
	}
	return id, true
}

func (c *RoomController) ListRooms(ctx *gin.Context) {
	code, ok := userCode(ctx)
	if !ok {
		return
	}

	rooms, err := c.rooms.ListRooms(ctx.Request.Context(), code)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "ok", gin.H{"rooms": converter.RoomsToApi(rooms)})
}

func (c *RoomController) CreateRoom(ctx *gin.Context) {
	type request struct {
		RoomName string `json:"roomName" binding:"required"`
		EndDate  string `json:"endDate" binding:"required"`
	}

	code, ok := userCode(ctx)
	if !ok {
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondValidationError(ctx, "roomName and endDate are required")
		return
	}

	endDate, err := parseEndDate(req.EndDate)
	if err != nil {
		respondValidationError(ctx, "endDate must be an ISO date")
		return
	}

	room, err := c.rooms.CreateRoom(ctx.Request.Context(), code, req.RoomName, endDate)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "room created", gin.H{
		"invitationCode": room.InvitationCode,
		"endDate":        room.EndDate.Format("2006-01-02"),
	})
}

func (c *RoomController) GetRoomInfo(ctx *gin.Context) {
	code, ok := userCode(ctx)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(ctx)
	if !ok {
		return
	}

	info, err := c.rooms.RoomInfo(ctx.Request.Context(), code, roomID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "ok", converter.RoomInfoToApi(info))
}

func (c *RoomController) Participate(ctx *gin.Context) {
	type request struct {
		InvitationCode string `json:"invitationCode" binding:"required"`
	}

	code, ok := userCode(ctx)
	if !ok {
		return
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondValidationError(ctx, "invitationCode is required")
		return
	}

	membership, err := c.rooms.Participate(ctx.Request.Context(), code, req.InvitationCode)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, "joined room", gin.H{"roomId": membership.RoomID})
}

func (c *RoomController) Confirm(ctx *gin.Context) {
	code, ok := userCode(ctx)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(ctx)
	if !ok {
		return
	}

	if err := c.rooms.Confirm(ctx.Request.Context(), code, roomID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "room confirmed", nil)
}

func (c *RoomController) RemoveMember(ctx *gin.Context) {
	code, ok := userCode(ctx)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(ctx)
	if !ok {
		return
	}
	targetUserID, err := uuid.Parse(ctx.Param("userId"))
	if err != nil {
		respondValidationError(ctx, "invalid user id")
		return
	}

	if err := c.rooms.RemoveMember(ctx.Request.Context(), code, roomID, targetUserID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "member removed", nil)
}

func (c *RoomController) GetReceiver(ctx *gin.Context) {
	code, ok := userCode(ctx)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(ctx)
	if !ok {
		return
	}

	receiver, err := c.rooms.Receiver(ctx.Request.Context(), code, roomID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "ok", converter.MemberToApi(receiver))
}

func (c *RoomController) RemoveRoom(ctx *gin.Context) {
	code, ok := userCode(ctx)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(ctx)
	if !ok {
		return
	}

	if err := c.rooms.RemoveRoom(ctx.Request.Context(), code, roomID); err != nil {
		respondError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, "room removed", nil)
}

func parseEndDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
