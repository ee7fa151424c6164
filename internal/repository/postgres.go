package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/domain"
	"github.com/manitto-app/manitto-server/internal/repository/model"
	"gorm.io/gorm"
)

// Postgres repositories translate gorm sentinel errors into domain error
// kinds; requires gorm.Config{TranslateError: true} so duplicate-key
// violations surface as gorm.ErrDuplicatedKey.

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}

	if err := r.db.WithContext(ctx).Create(toModelUser(user)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.WrapError(domain.KindDuplicate, "user code already exists", err)
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "user not found")
		}
		return nil, err
	}
	return toDomainUser(&user), nil
}

func (r *PostgresUserRepository) GetByCode(ctx context.Context, code string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "user not found")
		}
		return nil, err
	}
	return toDomainUser(&user), nil
}

func (r *PostgresUserRepository) GetByDeviceID(ctx context.Context, deviceID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&user, "device_id = ?", deviceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "user not found")
		}
		return nil, err
	}
	return toDomainUser(&user), nil
}

func (r *PostgresUserRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type PostgresRoomRepository struct {
	db *gorm.DB
}

func NewPostgresRoomRepository(db *gorm.DB) *PostgresRoomRepository {
	return &PostgresRoomRepository{db: db}
}

func (r *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room, adminMembership *domain.Manitto) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil || adminMembership == nil {
		return errors.New("room and admin membership are required")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toModelRoom(room)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.WrapError(domain.KindDuplicate, "invitation code already exists", err)
			}
			return err
		}
		if err := tx.Create(toModelManitto(adminMembership)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.WrapError(domain.KindDuplicate, "membership already exists", err)
			}
			return err
		}
		return nil
	})
}

func (r *PostgresRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var room model.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "room not found")
		}
		return nil, err
	}
	return toDomainRoom(&room), nil
}

func (r *PostgresRoomRepository) GetByInvitationCode(ctx context.Context, code string) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var room model.Room
	if err := r.db.WithContext(ctx).First(&room, "invitation_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "room not found")
		}
		return nil, err
	}
	return toDomainRoom(&room), nil
}

func (r *PostgresRoomRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Room{}).Where("invitation_code = ?", code).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRoomRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rooms []model.Room
	err := r.db.WithContext(ctx).Model(&model.Room{}).
		Joins("JOIN manittos ON manittos.room_id = rooms.id").
		Joins("LEFT JOIN user_room_settings ON user_room_settings.room_id = rooms.id AND user_room_settings.user_id = ?", userID).
		Where("manittos.user_id = ?", userID).
		Where("user_room_settings.is_deleted IS NOT TRUE").
		Order("rooms.created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Room, 0, len(rooms))
	for i := range rooms {
		result = append(result, toDomainRoom(&rooms[i]))
	}
	return result, nil
}

func (r *PostgresRoomRepository) Confirm(ctx context.Context, roomID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(&model.Room{}).
		Where("id = ?", roomID).
		Update("is_confirmed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.E(domain.KindNotFound, "room not found")
	}
	return nil
}

func (r *PostgresRoomRepository) AddMember(ctx context.Context, membership *domain.Manitto) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if membership == nil {
		return errors.New("membership is nil")
	}

	if err := r.db.WithContext(ctx).Create(toModelManitto(membership)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.WrapError(domain.KindDuplicate, "user already joined this room", err)
		}
		return err
	}
	return nil
}

func (r *PostgresRoomRepository) RemoveMember(ctx context.Context, roomID uuid.UUID, userID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&model.Manitto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.E(domain.KindNotFound, "membership not found")
	}
	return nil
}

func (r *PostgresRoomRepository) GetMembership(ctx context.Context, roomID uuid.UUID, userID uuid.UUID) (*domain.Manitto, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var membership model.Manitto
	err := r.db.WithContext(ctx).
		First(&membership, "room_id = ? AND user_id = ?", roomID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "membership not found")
		}
		return nil, err
	}
	return toDomainManitto(&membership), nil
}

func (r *PostgresRoomRepository) GetMembershipByManitto(ctx context.Context, roomID uuid.UUID, manittoUserID uuid.UUID) (*domain.Manitto, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var membership model.Manitto
	err := r.db.WithContext(ctx).
		First(&membership, "room_id = ? AND manitto_user_id = ?", roomID, manittoUserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "membership not found")
		}
		return nil, err
	}
	return toDomainManitto(&membership), nil
}

func (r *PostgresRoomRepository) ListMembers(ctx context.Context, roomID uuid.UUID) ([]*domain.RoomMember, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var members []domain.RoomMember
	err := r.db.WithContext(ctx).Model(&model.Manitto{}).
		Select("manittos.user_id, users.nickname").
		Joins("JOIN users ON users.id = manittos.user_id").
		Where("manittos.room_id = ?", roomID).
		Order("manittos.created_at ASC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.RoomMember, 0, len(members))
	for i := range members {
		result = append(result, &members[i])
	}
	return result, nil
}

func (r *PostgresRoomRepository) ListMemberIDs(ctx context.Context, roomID uuid.UUID) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Manitto{}).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRoomRepository) AssignTargets(ctx context.Context, roomID uuid.UUID, assignment map[uuid.UUID]uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for userID, manittoUserID := range assignment {
			res := tx.Model(&model.Manitto{}).
				Where("room_id = ? AND user_id = ?", roomID, userID).
				Update("manitto_user_id", manittoUserID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domain.E(domain.KindNotFound, "membership not found for assignment")
			}
		}
		return nil
	})
}

func (r *PostgresRoomRepository) SetRoomDeleted(ctx context.Context, userID uuid.UUID, roomID uuid.UUID, deleted bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	setting := model.UserRoomSetting{
		UserID:    userID,
		RoomID:    roomID,
		IsDeleted: deleted,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Save(&setting).Error
}

type PostgresCheerRepository struct {
	db *gorm.DB
}

func NewPostgresCheerRepository(db *gorm.DB) *PostgresCheerRepository {
	return &PostgresCheerRepository{db: db}
}

func (r *PostgresCheerRepository) Create(ctx context.Context, cheer *domain.Cheer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cheer == nil {
		return errors.New("cheer is nil")
	}

	return r.db.WithContext(ctx).Create(toModelCheer(cheer)).Error
}

func (r *PostgresCheerRepository) GetTypeByName(ctx context.Context, name string) (*domain.CheerType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cheerType model.CheerType
	if err := r.db.WithContext(ctx).First(&cheerType, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "cheer type not found")
		}
		return nil, err
	}
	return &domain.CheerType{ID: cheerType.ID, Name: cheerType.Name, Message: cheerType.Message}, nil
}

func (r *PostgresCheerRepository) SeedTypes(ctx context.Context, types []domain.CheerType) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, t := range types {
		var existing model.CheerType
		err := r.db.WithContext(ctx).First(&existing, "name = ?", t.Name).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		row := model.CheerType{ID: t.ID, Name: t.Name, Message: t.Message}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresCheerRepository) CountForRelation(ctx context.Context, manittoID uuid.UUID, from time.Time, to time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Cheer{}).
		Where("manitto_id = ? AND created_at >= ? AND created_at < ?", manittoID, from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *PostgresCheerRepository) CountByType(ctx context.Context, manittoID uuid.UUID) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type row struct {
		Name  string
		Count int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Cheer{}).
		Select("cheer_types.name AS name, COUNT(cheers.id) AS count").
		Joins("JOIN cheer_types ON cheer_types.id = cheers.cheer_type_id").
		Where("cheers.manitto_id = ?", manittoID).
		Group("cheer_types.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Name] = r.Count
	}
	return counts, nil
}

func (r *PostgresCheerRepository) RoomRanking(ctx context.Context, roomID uuid.UUID) ([]*domain.CheerRank, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type row struct {
		UserID          uuid.UUID
		Nickname        string
		ManittoUserID   *uuid.UUID
		ManittoNickname *string
		CheerCount      int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Manitto{}).
		Select(`manittos.user_id,
			receivers.nickname AS nickname,
			manittos.manitto_user_id,
			givers.nickname AS manitto_nickname,
			COUNT(cheers.id) AS cheer_count`).
		Joins("JOIN users AS receivers ON receivers.id = manittos.user_id").
		Joins("LEFT JOIN users AS givers ON givers.id = manittos.manitto_user_id").
		Joins("LEFT JOIN cheers ON cheers.manitto_id = manittos.id").
		Where("manittos.room_id = ?", roomID).
		Group("manittos.id, receivers.nickname, givers.nickname").
		Order("cheer_count DESC, manittos.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ranking := make([]*domain.CheerRank, 0, len(rows))
	for i, row := range rows {
		rank := &domain.CheerRank{
			Rank:       i + 1,
			UserID:     row.UserID,
			Nickname:   row.Nickname,
			CheerCount: row.CheerCount,
		}
		if row.ManittoUserID != nil {
			rank.ManittoUserID = *row.ManittoUserID
		}
		if row.ManittoNickname != nil {
			rank.ManittoNickname = *row.ManittoNickname
		}
		ranking = append(ranking, rank)
	}
	return ranking, nil
}

func toModelUser(user *domain.User) *model.User {
	return &model.User{
		ID:        user.ID,
		Code:      user.Code,
		Nickname:  user.Nickname,
		DeviceID:  user.DeviceID,
		CreatedAt: user.CreatedAt.UTC(),
	}
}

func toDomainUser(user *model.User) *domain.User {
	return &domain.User{
		ID:        user.ID,
		Code:      user.Code,
		Nickname:  user.Nickname,
		DeviceID:  user.DeviceID,
		CreatedAt: user.CreatedAt.UTC(),
	}
}

func toModelRoom(room *domain.Room) *model.Room {
	return &model.Room{
		ID:             room.ID,
		AdminUserID:    room.AdminUserID,
		InvitationCode: room.InvitationCode,
		Name:           room.Name,
		EndDate:        room.EndDate.UTC(),
		IsConfirmed:    room.IsConfirmed,
		CreatedAt:      room.CreatedAt.UTC(),
	}
}

func toDomainRoom(room *model.Room) *domain.Room {
	return &domain.Room{
		ID:             room.ID,
		AdminUserID:    room.AdminUserID,
		InvitationCode: room.InvitationCode,
		Name:           room.Name,
		EndDate:        room.EndDate.UTC(),
		IsConfirmed:    room.IsConfirmed,
		CreatedAt:      room.CreatedAt.UTC(),
	}
}

func toModelManitto(membership *domain.Manitto) *model.Manitto {
	return &model.Manitto{
		ID:            membership.ID,
		RoomID:        membership.RoomID,
		UserID:        membership.UserID,
		ManittoUserID: membership.ManittoUserID,
		CreatedAt:     membership.CreatedAt.UTC(),
	}
}

func toDomainManitto(membership *model.Manitto) *domain.Manitto {
	return &domain.Manitto{
		ID:            membership.ID,
		RoomID:        membership.RoomID,
		UserID:        membership.UserID,
		ManittoUserID: membership.ManittoUserID,
		CreatedAt:     membership.CreatedAt.UTC(),
	}
}

func toModelCheer(cheer *domain.Cheer) *model.Cheer {
	return &model.Cheer{
		ID:          cheer.ID,
		CheerTypeID: cheer.CheerTypeID,
		ManittoID:   cheer.ManittoID,
		Message:     cheer.Message,
		CreatedAt:   cheer.CreatedAt.UTC(),
	}
}
