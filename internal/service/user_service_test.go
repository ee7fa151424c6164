package service

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/code"
	"github.com/manitto-app/manitto-server/internal/domain"
	"github.com/manitto-app/manitto-server/internal/matching"
	"github.com/manitto-app/manitto-server/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	users  *repository.InMemoryUserRepository
	rooms  *repository.InMemoryRoomRepository
	cheers *repository.InMemoryCheerRepository

	userSvc  *UserService
	roomSvc  *RoomService
	cheerSvc *CheerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := repository.NewInMemoryUserRepository()
	rooms := repository.NewInMemoryRoomRepository(users)
	cheers := repository.NewInMemoryCheerRepository(users, rooms)
	require.NoError(t, cheers.SeedTypes(context.Background(), domain.DefaultCheerTypes()))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	codes := code.New(0, 0)

	return &testEnv{
		users:    users,
		rooms:    rooms,
		cheers:   cheers,
		userSvc:  NewUserService(users, codes, log),
		roomSvc:  NewRoomService(rooms, users, codes, matching.New(0), log),
		cheerSvc: NewCheerService(cheers, rooms, users, log),
	}
}

func (e *testEnv) createUser(t *testing.T, nickname string) *domain.User {
	t.Helper()
	user, err := e.userSvc.CreateUser(context.Background(), nickname, "device-"+nickname)
	require.NoError(t, err)
	return user
}

func (e *testEnv) createRoom(t *testing.T, admin *domain.User, name string) *domain.Room {
	t.Helper()
	room, err := e.roomSvc.CreateRoom(context.Background(), admin.Code, name, time.Now().AddDate(0, 0, 14))
	require.NoError(t, err)
	return room
}

func (e *testEnv) join(t *testing.T, user *domain.User, room *domain.Room) {
	t.Helper()
	_, err := e.roomSvc.Participate(context.Background(), user.Code, room.InvitationCode)
	require.NoError(t, err)
}

func TestCreateUserAssignsCode(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.userSvc.CreateUser(context.Background(), "지수", "device-1")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^U[A-Za-z0-9]{7}$`), user.Code)
	assert.Equal(t, "지수", user.Nickname)
	assert.NotEqual(t, uuid.Nil, user.ID)
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.userSvc.CreateUser(context.Background(), "   ", "device-1")
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = env.userSvc.CreateUser(context.Background(), "지수", "")
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestGetUserByDevice(t *testing.T) {
	env := newTestEnv(t)
	created := env.createUser(t, "민호")

	found, err := env.userSvc.GetUserByDevice(context.Background(), created.DeviceID)
	require.NoError(t, err)
	assert.Equal(t, created.Code, found.Code)

	_, err = env.userSvc.GetUserByDevice(context.Background(), "unknown-device")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestGetUserByDeviceReturnsLatest(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.userSvc.CreateUser(context.Background(), "old", "shared-device")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := env.userSvc.CreateUser(context.Background(), "new", "shared-device")
	require.NoError(t, err)

	found, err := env.userSvc.GetUserByDevice(context.Background(), "shared-device")
	require.NoError(t, err)
	assert.Equal(t, second.Code, found.Code)
	assert.NotEqual(t, first.Code, found.Code)
}
