package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByCode(ctx context.Context, code string) (*domain.User, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*domain.User, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

type RoomRepository interface {
	// Create inserts the room together with the admin's own membership in
	// one transaction.
	Create(ctx context.Context, room *domain.Room, adminMembership *domain.Manitto) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	GetByInvitationCode(ctx context.Context, code string) (*domain.Room, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	// ListByUser returns rooms the user participates in, skipping rooms the
	// user soft-deleted.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Room, error)
	Confirm(ctx context.Context, roomID uuid.UUID) error

	AddMember(ctx context.Context, membership *domain.Manitto) error
	RemoveMember(ctx context.Context, roomID uuid.UUID, userID uuid.UUID) error
	GetMembership(ctx context.Context, roomID uuid.UUID, userID uuid.UUID) (*domain.Manitto, error)
	// GetMembershipByManitto finds the relation whose assigned giver is
	// manittoUserID, i.e. the relation that user sends cheers through.
	GetMembershipByManitto(ctx context.Context, roomID uuid.UUID, manittoUserID uuid.UUID) (*domain.Manitto, error)
	ListMembers(ctx context.Context, roomID uuid.UUID) ([]*domain.RoomMember, error)
	ListMemberIDs(ctx context.Context, roomID uuid.UUID) ([]uuid.UUID, error)
	// AssignTargets writes assignment[userID] into each membership's
	// manitto_user_id as a single transaction. A missing membership aborts
	// the whole batch.
	AssignTargets(ctx context.Context, roomID uuid.UUID, assignment map[uuid.UUID]uuid.UUID) error

	SetRoomDeleted(ctx context.Context, userID uuid.UUID, roomID uuid.UUID, deleted bool) error
}

type CheerRepository interface {
	Create(ctx context.Context, cheer *domain.Cheer) error
	GetTypeByName(ctx context.Context, name string) (*domain.CheerType, error)
	SeedTypes(ctx context.Context, types []domain.CheerType) error
	// CountForRelation counts cheers on one relation created in [from, to).
	CountForRelation(ctx context.Context, manittoID uuid.UUID, from time.Time, to time.Time) (int, error)
	// CountByType returns cheer counts per type name for one relation.
	CountByType(ctx context.Context, manittoID uuid.UUID) (map[string]int, error)
	// RoomRanking aggregates total cheer count per membership in the room,
	// ordered by count descending, ties broken by membership creation order.
	RoomRanking(ctx context.Context, roomID uuid.UUID) ([]*domain.CheerRank, error)
}
