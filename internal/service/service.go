package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/domain"
)

type UserInteractor interface {
	CreateUser(ctx context.Context, nickname string, deviceID string) (*domain.User, error)
	GetUserByDevice(ctx context.Context, deviceID string) (*domain.User, error)
}

type RoomInteractor interface {
	CreateRoom(ctx context.Context, userCode string, name string, endDate time.Time) (*domain.Room, error)
	ListRooms(ctx context.Context, userCode string) ([]*domain.Room, error)
	RoomInfo(ctx context.Context, userCode string, roomID uuid.UUID) (*RoomInfo, error)
	Participate(ctx context.Context, userCode string, invitationCode string) (*domain.Manitto, error)
	Confirm(ctx context.Context, userCode string, roomID uuid.UUID) error
	RemoveMember(ctx context.Context, userCode string, roomID uuid.UUID, targetUserID uuid.UUID) error
	Receiver(ctx context.Context, userCode string, roomID uuid.UUID) (*domain.RoomMember, error)
	RemoveRoom(ctx context.Context, userCode string, roomID uuid.UUID) error
}

type CheerInteractor interface {
	Message(ctx context.Context, cheerType string) (*domain.CheerType, error)
	Send(ctx context.Context, userCode string, roomID uuid.UUID, cheerType string, message string) (int, error)
	Result(ctx context.Context, userCode string, roomID uuid.UUID) (*ManittoResult, error)
}

// RoomInfo is the member-facing view of a room.
type RoomInfo struct {
	Room    *domain.Room
	IsAdmin bool
	Members []*domain.RoomMember
}

// ManittoResult bundles the caller's receiver, the caller's sent-cheer
// counts per type, and the room-wide ranking.
type ManittoResult struct {
	Receiver    *domain.RoomMember
	CheerCounts map[string]int
	Ranking     []*domain.CheerRank
}
