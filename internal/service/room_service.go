package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/code"
	"github.com/manitto-app/manitto-server/internal/domain"
	"github.com/manitto-app/manitto-server/internal/matching"
	"github.com/manitto-app/manitto-server/internal/repository"
	"github.com/manitto-app/manitto-server/lib/logger/sl"
)

const roomCodePrefix = "R"

type RoomService struct {
	rooms   repository.RoomRepository
	users   repository.UserRepository
	codes   code.Generator
	matcher matching.Matcher
	log     *slog.Logger
}

func NewRoomService(
	rooms repository.RoomRepository,
	users repository.UserRepository,
	codes code.Generator,
	matcher matching.Matcher,
	log *slog.Logger,
) *RoomService {
	if log == nil {
		log = slog.Default()
	}
	return &RoomService{
		rooms:   rooms,
		users:   users,
		codes:   codes,
		matcher: matcher,
		log:     log,
	}
}

func (s *RoomService) CreateRoom(ctx context.Context, userCode string, name string, endDate time.Time) (*domain.Room, error) {
	const op = "service.room.create"
	log := s.log.With(slog.String("op", op))

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.E(domain.KindValidation, "room name is required")
	}
	if endDate.IsZero() {
		return nil, domain.E(domain.KindValidation, "end date is required")
	}

	admin, err := s.users.GetByCode(ctx, userCode)
	if err != nil {
		return nil, err
	}

	invitationCode, err := s.codes.Generate(ctx, roomCodePrefix, s.rooms.CodeExists)
	if err != nil {
		log.Error("failed to generate invitation code", sl.Err(err))
		return nil, err
	}

	room := domain.NewRoom(admin.ID, invitationCode, name, endDate)
	adminMembership := domain.NewManitto(room.ID, admin.ID)
	if err := s.rooms.Create(ctx, room, adminMembership); err != nil {
		log.Error("failed to create room", sl.Err(err))
		return nil, err
	}

	log.Info("room created",
		slog.String("room_id", room.ID.String()),
		slog.String("invitation_code", room.InvitationCode),
	)
	return room, nil
}

func (s *RoomService) ListRooms(ctx context.Context, userCode string) ([]*domain.Room, error) {
	user, err := s.users.GetByCode(ctx, userCode)
	if err != nil {
		return nil, err
	}
	return s.rooms.ListByUser(ctx, user.ID)
}

func (s *RoomService) RoomInfo(ctx context.Context, userCode string, roomID uuid.UUID) (*RoomInfo, error) {
	user, err := s.users.GetByCode(ctx, userCode)
	if err != nil {
		return nil, err
	}

	if _, err := s.rooms.GetMembership(ctx, roomID, user.ID); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.E(domain.KindForbidden, "user is not a member of this room")
		}
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	members, err := s.rooms.ListMembers(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return &RoomInfo{
		Room:    room,
		IsAdmin: room.AdminUserID == user.ID,
		Members: members,
	}, nil
}

func (s *RoomService) Participate(ctx context.Context, userCode string, invitationCode string) (*domain.Manitto, error) {
	const op = "service.room.participate"
	log := s.log.With(slog.String("op", op))

	user, err := s.users.GetByCode(ctx, userCode)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByInvitationCode(ctx, invitationCode)
	if err != nil {
		return nil, err
	}
	if room.IsConfirmed {
		return nil, domain.E(domain.KindForbidden, "room is already confirmed, matching has run")
	}

	membership := domain.NewManitto(room.ID, user.ID)
	if err := s.rooms.AddMember(ctx, membership); err != nil {
		return nil, err
	}

	log.Info("user joined room",
		slog.String("room_id", room.ID.String()),
		slog.String("user_id", user.ID.String()),
	)
	return membership, nil
}

// Confirm flips the room to its confirmed state and runs matching. The
// member count is validated before the flag flips, so InsufficientMembers
// leaves the room open. Any failure after the flip leaves the room
// confirmed but unmatched and surfaces as KindPartialMatchingFailure.
func (s *RoomService) Confirm(ctx context.Context, userCode string, roomID uuid.UUID) error {
	const op = "service.room.confirm"
	log := s.log.With(
		slog.String("op", op),
		slog.String("room_id", roomID.String()),
	)

	admin, err := s.users.GetByCode(ctx, userCode)
	if err != nil {
		return err
	}
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room.AdminUserID != admin.ID {
		return domain.E(domain.KindForbidden, "only the room admin can confirm the room")
	}
	if room.IsConfirmed {
		return domain.E(domain.KindForbidden, "room is already confirmed")
	}

	memberIDs, err := s.rooms.ListMemberIDs(ctx, roomID)
	if err != nil {
		return err
	}
	if len(memberIDs) < 2 {
		return domain.E(domain.KindInsufficientMembers, "room needs at least 2 members to be confirmed")
	}

	if err := s.rooms.Confirm(ctx, roomID); err != nil {
		return err
	}

	assignment, err := s.matcher.Assign(memberIDs)
	if err != nil {
		log.Error("matching failed after confirm", sl.Err(err))
		return domain.WrapError(domain.KindPartialMatchingFailure, "room confirmed but matching incomplete", err)
	}
	if err := s.rooms.AssignTargets(ctx, roomID, assignment); err != nil {
		log.Error("failed to persist assignments", sl.Err(err))
		return domain.WrapError(domain.KindPartialMatchingFailure, "room confirmed but matching incomplete", err)
	}

	log.Info("room confirmed and matched", slog.Int("members", len(memberIDs)))
	return nil
}

func (s *RoomService) RemoveMember(ctx context.Context, userCode string, roomID uuid.UUID, targetUserID uuid.UUID) error {
	const op = "service.room.removeMember"
	log := s.log.With(
		slog.String("op", op),
		slog.String("room_id", roomID.String()),
	)

	admin, err := s.users.GetByCode(ctx, userCode)
	if err != nil {
		return err
	}
	if admin.ID == targetUserID {
		return domain.E(domain.KindSelfDeletionForbidden, "the admin cannot remove themselves from the room")
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room.AdminUserID != admin.ID {
		return domain.E(domain.KindForbidden, "only the room admin can remove members")
	}

	if err := s.rooms.RemoveMember(ctx, roomID, targetUserID); err != nil {
		return err
	}

	// Removing a member after matching leaves the relations pointing at
	// that user dangling; matching is never re-run.
	log.Info("member removed", slog.String("target_user_id", targetUserID.String()))
	return nil
}

// Receiver returns the member the caller sends cheers to: the owner of the
// relation whose assigned manitto is the caller.
func (s *RoomService) Receiver(ctx context.Context, userCode string, roomID uuid.UUID) (*domain.RoomMember, error) {
	user, err := s.users.GetByCode(ctx, userCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.rooms.GetMembership(ctx, roomID, user.ID); err != nil {
		return nil, err
	}

	relation, err := s.rooms.GetMembershipByManitto(ctx, roomID, user.ID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.E(domain.KindNotFound, "matching has not run for this room yet")
		}
		return nil, err
	}

	receiver, err := s.users.GetByID(ctx, relation.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.RoomMember{UserID: receiver.ID, Nickname: receiver.Nickname}, nil
}

func (s *RoomService) RemoveRoom(ctx context.Context, userCode string, roomID uuid.UUID) error {
	user, err := s.users.GetByCode(ctx, userCode)
	if err != nil {
		return err
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return err
	}
	return s.rooms.SetRoomDeleted(ctx, user.ID, roomID, true)
}
