package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code      string    `gorm:"size:16;uniqueIndex;not null"`
	Nickname  string    `gorm:"size:255;not null"`
	DeviceID  string    `gorm:"size:255;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type Room struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	AdminUserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	InvitationCode string    `gorm:"size:16;uniqueIndex;not null"`
	Name           string    `gorm:"size:255;not null"`
	EndDate        time.Time `gorm:"not null"`
	IsConfirmed    bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"not null"`
}

// Manitto rows are unique per (room, user); manitto_user_id stays NULL
// until the room is confirmed and matching runs.
type Manitto struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RoomID        uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_manittos_room_user;not null"`
	UserID        uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_manittos_room_user;not null"`
	ManittoUserID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time  `gorm:"not null"`
}

type Cheer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CheerTypeID uuid.UUID `gorm:"type:uuid;index;not null"`
	ManittoID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Message     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"index;not null"`
}

type CheerType struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"size:32;uniqueIndex;not null"`
	Message string    `gorm:"type:text;not null"`
}

type UserRoomSetting struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	IsDeleted bool      `gorm:"not null;default:false"`
	UpdatedAt time.Time
}
