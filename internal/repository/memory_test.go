package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRoom(t *testing.T, users *InMemoryUserRepository, rooms *InMemoryRoomRepository, memberCount int) (*domain.Room, []*domain.User) {
	t.Helper()
	ctx := context.Background()

	members := make([]*domain.User, 0, memberCount)
	for i := 0; i < memberCount; i++ {
		user := domain.NewUser("U"+uuid.NewString()[:7], "user", "device")
		require.NoError(t, users.Create(ctx, user))
		members = append(members, user)
	}

	room := domain.NewRoom(members[0].ID, "R"+uuid.NewString()[:7], "room", time.Now().AddDate(0, 0, 7))
	require.NoError(t, rooms.Create(ctx, room, domain.NewManitto(room.ID, members[0].ID)))
	for _, member := range members[1:] {
		require.NoError(t, rooms.AddMember(ctx, domain.NewManitto(room.ID, member.ID)))
	}
	return room, members
}

func TestAddMemberDuplicate(t *testing.T) {
	users := NewInMemoryUserRepository()
	rooms := NewInMemoryRoomRepository(users)
	room, members := seedRoom(t, users, rooms, 2)

	err := rooms.AddMember(context.Background(), domain.NewManitto(room.ID, members[1].ID))
	assert.True(t, domain.IsKind(err, domain.KindDuplicate))
}

func TestCreateRoomDuplicateInvitationCode(t *testing.T) {
	users := NewInMemoryUserRepository()
	rooms := NewInMemoryRoomRepository(users)
	room, members := seedRoom(t, users, rooms, 1)

	clash := domain.NewRoom(members[0].ID, room.InvitationCode, "other", time.Now())
	err := rooms.Create(context.Background(), clash, domain.NewManitto(clash.ID, members[0].ID))
	assert.True(t, domain.IsKind(err, domain.KindDuplicate))
}

func TestAssignTargetsRejectsUnknownMember(t *testing.T) {
	users := NewInMemoryUserRepository()
	rooms := NewInMemoryRoomRepository(users)
	room, members := seedRoom(t, users, rooms, 2)

	assignment := map[uuid.UUID]uuid.UUID{
		members[0].ID: members[1].ID,
		uuid.New():    members[0].ID,
	}
	err := rooms.AssignTargets(context.Background(), room.ID, assignment)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	// Nothing may be written when any row is missing.
	m, err := rooms.GetMembership(context.Background(), room.ID, members[0].ID)
	require.NoError(t, err)
	assert.False(t, m.IsMatched())
}

func TestGetMembershipByManitto(t *testing.T) {
	users := NewInMemoryUserRepository()
	rooms := NewInMemoryRoomRepository(users)
	room, members := seedRoom(t, users, rooms, 2)
	ctx := context.Background()

	_, err := rooms.GetMembershipByManitto(ctx, room.ID, members[0].ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	require.NoError(t, rooms.AssignTargets(ctx, room.ID, map[uuid.UUID]uuid.UUID{
		members[0].ID: members[1].ID,
		members[1].ID: members[0].ID,
	}))

	relation, err := rooms.GetMembershipByManitto(ctx, room.ID, members[1].ID)
	require.NoError(t, err)
	assert.Equal(t, members[0].ID, relation.UserID)
}
