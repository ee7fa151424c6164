package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/manitto-app/manitto-server/internal/code"
	"github.com/manitto-app/manitto-server/internal/domain"
	"github.com/manitto-app/manitto-server/internal/matching"
	"github.com/manitto-app/manitto-server/internal/repository"
	"github.com/manitto-app/manitto-server/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repository.NewInMemoryUserRepository()
	rooms := repository.NewInMemoryRoomRepository(users)
	cheers := repository.NewInMemoryCheerRepository(users, rooms)
	require.NoError(t, cheers.SeedTypes(context.Background(), domain.DefaultCheerTypes()))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	codes := code.New(0, 0)

	userSvc := service.NewUserService(users, codes, log)
	roomSvc := service.NewRoomService(rooms, users, codes, matching.New(0), log)
	cheerSvc := service.NewCheerService(cheers, rooms, users, log)

	return SetupRouter(
		NewUserController(userSvc),
		NewRoomController(roomSvc),
		NewCheerController(cheerSvc),
		RateLimitConfig{},
	)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, userCode string, body any) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userCode != "" {
		req.Header.Set(headerUserCode, userCode)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func createUser(t *testing.T, router *gin.Engine, nickname string) string {
	t.Helper()
	rec, resp := doJSON(t, router, http.MethodPost, "/user", "", gin.H{
		"nickname": nickname,
		"deviceId": "device-" + nickname,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	result := resp.Result.(map[string]any)
	return result["code"].(string)
}

func createRoom(t *testing.T, router *gin.Engine, adminCode string) (roomID string, invitationCode string) {
	t.Helper()
	endDate := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	rec, resp := doJSON(t, router, http.MethodPost, "/room", adminCode, gin.H{
		"roomName": "room",
		"endDate":  endDate,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	invitationCode = resp.Result.(map[string]any)["invitationCode"].(string)

	_, listResp := doJSON(t, router, http.MethodGet, "/room", adminCode, nil)
	roomList := listResp.Result.(map[string]any)["rooms"].([]any)
	require.NotEmpty(t, roomList)
	roomID = roomList[0].(map[string]any)["id"].(string)
	return roomID, invitationCode
}

func joinRoom(t *testing.T, router *gin.Engine, userCode, invitationCode string) {
	t.Helper()
	rec, _ := doJSON(t, router, http.MethodPost, "/room/participate", userCode, gin.H{
		"invitationCode": invitationCode,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateUserEndpoint(t *testing.T) {
	router := newTestServer(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/user", "", gin.H{
		"nickname": "지수",
		"deviceId": "device-1",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.IsSuccess)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Regexp(t, `^U[A-Za-z0-9]{7}$`, resp.Result.(map[string]any)["code"])
}

func TestCreateUserMissingFields(t *testing.T) {
	router := newTestServer(t)

	rec, resp := doJSON(t, router, http.MethodPost, "/user", "", gin.H{"nickname": "지수"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.IsSuccess)
}

func TestGetUserByDeviceEndpoint(t *testing.T) {
	router := newTestServer(t)
	userCode := createUser(t, router, "minho")

	rec, resp := doJSON(t, router, http.MethodGet, "/user?deviceId=device-minho", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userCode, resp.Result.(map[string]any)["code"])

	rec, resp = doJSON(t, router, http.MethodGet, "/user?deviceId=unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.IsSuccess)
}

func TestRoomLifecycle(t *testing.T) {
	router := newTestServer(t)
	adminCode := createUser(t, router, "admin")
	memberCode := createUser(t, router, "member")

	roomID, invitationCode := createRoom(t, router, adminCode)
	joinRoom(t, router, memberCode, invitationCode)

	rec, resp := doJSON(t, router, http.MethodGet, "/room/"+roomID, memberCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info := resp.Result.(map[string]any)
	assert.Equal(t, false, info["is_admin"])
	assert.Len(t, info["members"].([]any), 2)

	rec, _ = doJSON(t, router, http.MethodPatch, "/room/"+roomID, adminCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = doJSON(t, router, http.MethodGet, "/room/"+roomID+"/receiver", adminCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	receiver := resp.Result.(map[string]any)
	assert.Equal(t, "member", receiver["nickname"])

	rec, resp = doJSON(t, router, http.MethodPost, "/cheer", adminCode, gin.H{
		"roomId":    roomID,
		"cheerType": "fire",
		"message":   "오늘도 파이팅!",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(1), resp.Result.(map[string]any)["todaysCount"])

	rec, resp = doJSON(t, router, http.MethodGet, "/room/"+roomID+"/result", memberCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := resp.Result.(map[string]any)
	assert.Equal(t, "admin", result["manitto"].(map[string]any)["nickname"])
	assert.Len(t, result["manitto_rank"].([]any), 2)
}

func TestConfirmRequiresAdminEndpoint(t *testing.T) {
	router := newTestServer(t)
	adminCode := createUser(t, router, "admin")
	memberCode := createUser(t, router, "member")
	roomID, invitationCode := createRoom(t, router, adminCode)
	joinRoom(t, router, memberCode, invitationCode)

	rec, resp := doJSON(t, router, http.MethodPatch, "/room/"+roomID, memberCode, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, resp.IsSuccess)
}

func TestParticipateTwiceConflict(t *testing.T) {
	router := newTestServer(t)
	adminCode := createUser(t, router, "admin")
	memberCode := createUser(t, router, "member")
	_, invitationCode := createRoom(t, router, adminCode)
	joinRoom(t, router, memberCode, invitationCode)

	rec, resp := doJSON(t, router, http.MethodPost, "/room/participate", memberCode, gin.H{
		"invitationCode": invitationCode,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, resp.IsSuccess)
}

func TestUnknownRoomNotFound(t *testing.T) {
	router := newTestServer(t)
	adminCode := createUser(t, router, "admin")

	rec, _ := doJSON(t, router, http.MethodDelete, "/room/00000000-0000-0000-0000-000000000001", adminCode, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMissingUserCodeHeader(t *testing.T) {
	router := newTestServer(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/room", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.IsSuccess)
}

func TestInvalidRoomIDParam(t *testing.T) {
	router := newTestServer(t)
	adminCode := createUser(t, router, "admin")

	rec, _ := doJSON(t, router, http.MethodGet, "/room/not-a-uuid", adminCode, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheerMessageEndpoint(t *testing.T) {
	router := newTestServer(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/cheer/luck/message", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "luck", resp.Result.(map[string]any)["type"])
	assert.NotEmpty(t, resp.Result.(map[string]any)["message"])

	rec, _ = doJSON(t, router, http.MethodGet, "/cheer/thunder/message", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
