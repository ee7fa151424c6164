package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/domain"
	"github.com/manitto-app/manitto-server/internal/repository"
	"github.com/manitto-app/manitto-server/lib/logger/sl"
)

type CheerService struct {
	cheers repository.CheerRepository
	rooms  repository.RoomRepository
	users  repository.UserRepository
	log    *slog.Logger

	// now is the clock used for today's-count day bounds.
	now func() time.Time
}

func NewCheerService(
	cheers repository.CheerRepository,
	rooms repository.RoomRepository,
	users repository.UserRepository,
	log *slog.Logger,
) *CheerService {
	if log == nil {
		log = slog.Default()
	}
	return &CheerService{
		cheers: cheers,
		rooms:  rooms,
		users:  users,
		log:    log,
		now:    time.Now,
	}
}

func (s *CheerService) Message(ctx context.Context, cheerType string) (*domain.CheerType, error) {
	if cheerType == "" {
		return nil, domain.E(domain.KindValidation, "cheer type is required")
	}
	return s.cheers.GetTypeByName(ctx, cheerType)
}

// Send stores a cheer on the caller's giver relation and returns how many
// cheers that relation has received today.
func (s *CheerService) Send(ctx context.Context, userCode string, roomID uuid.UUID, cheerType string, message string) (int, error) {
	const op = "service.cheer.send"
	log := s.log.With(
		slog.String("op", op),
		slog.String("room_id", roomID.String()),
	)

	message = strings.TrimSpace(message)
	if message == "" {
		return 0, domain.E(domain.KindValidation, "cheer message is required")
	}

	sender, err := s.users.GetByCode(ctx, userCode)
	if err != nil {
		return 0, err
	}

	// The caller sends as a giver, through the relation that names them as
	// the manitto. No such relation exists until matching has run.
	relation, err := s.rooms.GetMembershipByManitto(ctx, roomID, sender.ID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return 0, domain.E(domain.KindNotFound, "no manitto relation for this user, matching may not have run")
		}
		return 0, err
	}

	ct, err := s.cheers.GetTypeByName(ctx, cheerType)
	if err != nil {
		return 0, err
	}

	cheer := domain.NewCheer(ct.ID, relation.ID, message)
	if err := s.cheers.Create(ctx, cheer); err != nil {
		log.Error("failed to store cheer", sl.Err(err))
		return 0, err
	}

	from, to := dayBounds(s.now())
	count, err := s.cheers.CountForRelation(ctx, relation.ID, from, to)
	if err != nil {
		return 0, err
	}

	log.Info("cheer sent",
		slog.String("cheer_type", ct.Name),
		slog.Int("todays_count", count),
	)
	return count, nil
}

func (s *CheerService) Result(ctx context.Context, userCode string, roomID uuid.UUID) (*ManittoResult, error) {
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

	cheerCounts, err := s.cheers.CountByType(ctx, relation.ID)
	if err != nil {
		return nil, err
	}
	ranking, err := s.cheers.RoomRanking(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return &ManittoResult{
		Receiver:    &domain.RoomMember{UserID: receiver.ID, Nickname: receiver.Nickname},
		CheerCounts: cheerCounts,
		Ranking:     ranking,
	}, nil
}

// dayBounds returns the [start, end) of the calendar day containing t, in
// the server's local time zone.
func dayBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	from := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}
