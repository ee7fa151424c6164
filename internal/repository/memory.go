package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/domain"
)

// In-memory repositories back the test suite and the DSN-less dev mode.
// They enforce the same uniqueness rules the Postgres schema does, so the
// duplicate/not-found behavior of both implementations matches.

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
	codes map[string]uuid.UUID
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[uuid.UUID]*domain.User),
		codes: make(map[string]uuid.UUID),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codes[user.Code]; ok {
		return domain.E(domain.KindDuplicate, "user code already exists")
	}

	copied := *user
	r.users[user.ID] = &copied
	r.codes[user.Code] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.E(domain.KindNotFound, "user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *InMemoryUserRepository) GetByCode(ctx context.Context, code string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.codes[code]
	if !ok {
		return nil, domain.E(domain.KindNotFound, "user not found")
	}
	copied := *r.users[id]
	return &copied, nil
}

func (r *InMemoryUserRepository) GetByDeviceID(ctx context.Context, deviceID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.User
	for _, user := range r.users {
		if user.DeviceID != deviceID {
			continue
		}
		if latest == nil || user.CreatedAt.After(latest.CreatedAt) {
			latest = user
		}
	}
	if latest == nil {
		return nil, domain.E(domain.KindNotFound, "user not found")
	}
	copied := *latest
	return &copied, nil
}

func (r *InMemoryUserRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.codes[code]
	return ok, nil
}

type userRoomKey struct {
	userID uuid.UUID
	roomID uuid.UUID
}

type InMemoryRoomRepository struct {
	mu          sync.RWMutex
	rooms       map[uuid.UUID]*domain.Room
	codes       map[string]uuid.UUID
	memberships map[uuid.UUID][]*domain.Manitto
	deleted     map[userRoomKey]bool

	users *InMemoryUserRepository
}

func NewInMemoryRoomRepository(users *InMemoryUserRepository) *InMemoryRoomRepository {
	return &InMemoryRoomRepository{
		rooms:       make(map[uuid.UUID]*domain.Room),
		codes:       make(map[string]uuid.UUID),
		memberships: make(map[uuid.UUID][]*domain.Manitto),
		deleted:     make(map[userRoomKey]bool),
		users:       users,
	}
}

func (r *InMemoryRoomRepository) Create(ctx context.Context, room *domain.Room, adminMembership *domain.Manitto) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codes[room.InvitationCode]; ok {
		return domain.E(domain.KindDuplicate, "invitation code already exists")
	}

	copiedRoom := *room
	copiedMembership := *adminMembership
	r.rooms[room.ID] = &copiedRoom
	r.codes[room.InvitationCode] = room.ID
	r.memberships[room.ID] = []*domain.Manitto{&copiedMembership}
	return nil
}

func (r *InMemoryRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, domain.E(domain.KindNotFound, "room not found")
	}
	copied := *room
	return &copied, nil
}

func (r *InMemoryRoomRepository) GetByInvitationCode(ctx context.Context, code string) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.codes[code]
	if !ok {
		return nil, domain.E(domain.KindNotFound, "room not found")
	}
	copied := *r.rooms[id]
	return &copied, nil
}

func (r *InMemoryRoomRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.codes[code]
	return ok, nil
}

func (r *InMemoryRoomRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Room, 0)
	for roomID, members := range r.memberships {
		if r.deleted[userRoomKey{userID: userID, roomID: roomID}] {
			continue
		}
		for _, m := range members {
			if m.UserID == userID {
				copied := *r.rooms[roomID]
				result = append(result, &copied)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRoomRepository) Confirm(ctx context.Context, roomID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return domain.E(domain.KindNotFound, "room not found")
	}
	room.IsConfirmed = true
	return nil
}

func (r *InMemoryRoomRepository) AddMember(ctx context.Context, membership *domain.Manitto) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[membership.RoomID]; !ok {
		return domain.E(domain.KindNotFound, "room not found")
	}
	for _, m := range r.memberships[membership.RoomID] {
		if m.UserID == membership.UserID {
			return domain.E(domain.KindDuplicate, "user already joined this room")
		}
	}

	copied := *membership
	r.memberships[membership.RoomID] = append(r.memberships[membership.RoomID], &copied)
	return nil
}

func (r *InMemoryRoomRepository) RemoveMember(ctx context.Context, roomID uuid.UUID, userID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.memberships[roomID]
	for i, m := range members {
		if m.UserID == userID {
			r.memberships[roomID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return domain.E(domain.KindNotFound, "membership not found")
}

func (r *InMemoryRoomRepository) GetMembership(ctx context.Context, roomID uuid.UUID, userID uuid.UUID) (*domain.Manitto, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.memberships[roomID] {
		if m.UserID == userID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, domain.E(domain.KindNotFound, "membership not found")
}

func (r *InMemoryRoomRepository) GetMembershipByManitto(ctx context.Context, roomID uuid.UUID, manittoUserID uuid.UUID) (*domain.Manitto, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.memberships[roomID] {
		if m.ManittoUserID != nil && *m.ManittoUserID == manittoUserID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, domain.E(domain.KindNotFound, "membership not found")
}

func (r *InMemoryRoomRepository) ListMembers(ctx context.Context, roomID uuid.UUID) ([]*domain.RoomMember, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	memberships := append([]*domain.Manitto(nil), r.memberships[roomID]...)
	r.mu.RUnlock()

	result := make([]*domain.RoomMember, 0, len(memberships))
	for _, m := range memberships {
		user, err := r.users.GetByID(ctx, m.UserID)
		if err != nil {
			if domain.IsKind(err, domain.KindNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, &domain.RoomMember{UserID: user.ID, Nickname: user.Nickname})
	}
	return result, nil
}

func (r *InMemoryRoomRepository) ListMemberIDs(ctx context.Context, roomID uuid.UUID) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(r.memberships[roomID]))
	for _, m := range r.memberships[roomID] {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}

func (r *InMemoryRoomRepository) AssignTargets(ctx context.Context, roomID uuid.UUID, assignment map[uuid.UUID]uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.memberships[roomID]
	byUser := make(map[uuid.UUID]*domain.Manitto, len(members))
	for _, m := range members {
		byUser[m.UserID] = m
	}

	// All-or-nothing: verify every membership exists before writing.
	for userID := range assignment {
		if _, ok := byUser[userID]; !ok {
			return domain.E(domain.KindNotFound, "membership not found for assignment")
		}
	}
	for userID, manittoUserID := range assignment {
		target := manittoUserID
		byUser[userID].ManittoUserID = &target
	}
	return nil
}

func (r *InMemoryRoomRepository) SetRoomDeleted(ctx context.Context, userID uuid.UUID, roomID uuid.UUID, deleted bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleted[userRoomKey{userID: userID, roomID: roomID}] = deleted
	return nil
}

type InMemoryCheerRepository struct {
	mu     sync.RWMutex
	types  map[string]*domain.CheerType
	cheers []*domain.Cheer

	users *InMemoryUserRepository
	rooms *InMemoryRoomRepository
}

func NewInMemoryCheerRepository(users *InMemoryUserRepository, rooms *InMemoryRoomRepository) *InMemoryCheerRepository {
	return &InMemoryCheerRepository{
		types: make(map[string]*domain.CheerType),
		users: users,
		rooms: rooms,
	}
}

func (r *InMemoryCheerRepository) Create(ctx context.Context, cheer *domain.Cheer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *cheer
	r.cheers = append(r.cheers, &copied)
	return nil
}

func (r *InMemoryCheerRepository) GetTypeByName(ctx context.Context, name string) (*domain.CheerType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cheerType, ok := r.types[name]
	if !ok {
		return nil, domain.E(domain.KindNotFound, "cheer type not found")
	}
	copied := *cheerType
	return &copied, nil
}

func (r *InMemoryCheerRepository) SeedTypes(ctx context.Context, types []domain.CheerType) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range types {
		if _, ok := r.types[t.Name]; ok {
			continue
		}
		copied := t
		r.types[t.Name] = &copied
	}
	return nil
}

func (r *InMemoryCheerRepository) CountForRelation(ctx context.Context, manittoID uuid.UUID, from time.Time, to time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, cheer := range r.cheers {
		if cheer.ManittoID != manittoID {
			continue
		}
		if cheer.CreatedAt.Before(from) || !cheer.CreatedAt.Before(to) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *InMemoryCheerRepository) CountByType(ctx context.Context, manittoID uuid.UUID) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	byTypeID := make(map[uuid.UUID]string, len(r.types))
	for name, t := range r.types {
		byTypeID[t.ID] = name
	}

	counts := make(map[string]int)
	for _, cheer := range r.cheers {
		if cheer.ManittoID != manittoID {
			continue
		}
		if name, ok := byTypeID[cheer.CheerTypeID]; ok {
			counts[name]++
		}
	}
	return counts, nil
}

func (r *InMemoryCheerRepository) RoomRanking(ctx context.Context, roomID uuid.UUID) ([]*domain.CheerRank, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.rooms.mu.RLock()
	memberships := append([]*domain.Manitto(nil), r.rooms.memberships[roomID]...)
	r.rooms.mu.RUnlock()

	r.mu.RLock()
	countByRelation := make(map[uuid.UUID]int)
	for _, cheer := range r.cheers {
		countByRelation[cheer.ManittoID]++
	}
	r.mu.RUnlock()

	ranking := make([]*domain.CheerRank, 0, len(memberships))
	for _, m := range memberships {
		rank := &domain.CheerRank{
			UserID:     m.UserID,
			CheerCount: countByRelation[m.ID],
		}
		if user, err := r.users.GetByID(ctx, m.UserID); err == nil {
			rank.Nickname = user.Nickname
		}
		if m.ManittoUserID != nil {
			rank.ManittoUserID = *m.ManittoUserID
			if giver, err := r.users.GetByID(ctx, *m.ManittoUserID); err == nil {
				rank.ManittoNickname = giver.Nickname
			}
		}
		ranking = append(ranking, rank)
	}

	// memberships are in insertion order; a stable sort keeps that order
	// as the tie-break.
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].CheerCount > ranking[j].CheerCount
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}
	return ranking, nil
}
