package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/manitto-app/manitto-server/internal/code"
	"github.com/manitto-app/manitto-server/internal/domain"
	"github.com/manitto-app/manitto-server/internal/repository"
	"github.com/manitto-app/manitto-server/lib/logger/sl"
)

const userCodePrefix = "U"

type UserService struct {
	users repository.UserRepository
	codes code.Generator
	log   *slog.Logger
}

func NewUserService(users repository.UserRepository, codes code.Generator, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{users: users, codes: codes, log: log}
}

func (s *UserService) CreateUser(ctx context.Context, nickname string, deviceID string) (*domain.User, error) {
	const op = "service.user.create"
	log := s.log.With(slog.String("op", op))

	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, domain.E(domain.KindValidation, "nickname is required")
	}
	if deviceID == "" {
		return nil, domain.E(domain.KindValidation, "device id is required")
	}

	userCode, err := s.codes.Generate(ctx, userCodePrefix, s.users.CodeExists)
	if err != nil {
		log.Error("failed to generate user code", sl.Err(err))
		return nil, err
	}

	user := domain.NewUser(userCode, nickname, deviceID)
	if err := s.users.Create(ctx, user); err != nil {
		log.Error("failed to create user", sl.Err(err))
		return nil, err
	}

	log.Info("user created", slog.String("user_code", user.Code))
	return user, nil
}

func (s *UserService) GetUserByDevice(ctx context.Context, deviceID string) (*domain.User, error) {
	if deviceID == "" {
		return nil, domain.E(domain.KindValidation, "device id is required")
	}
	return s.users.GetByDeviceID(ctx, deviceID)
}
