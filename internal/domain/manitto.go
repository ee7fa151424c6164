package domain

import (
	"time"

	"github.com/google/uuid"
)

// Manitto is the per-user relation inside a room. ManittoUserID is the
// secret giver assigned to UserID; it stays nil until matching runs and is
// written exactly once. Within a matched room the assignments form a
// permutation of the member set with no fixed point: a user sends cheers
// through the relation whose ManittoUserID equals their own ID.
type Manitto struct {
	ID            uuid.UUID  `json:"id"`
	RoomID        uuid.UUID  `json:"room_id"`
	UserID        uuid.UUID  `json:"user_id"`
	ManittoUserID *uuid.UUID `json:"manitto_user_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewManitto(roomID uuid.UUID, userID uuid.UUID) *Manitto {
	return &Manitto{
		ID:        uuid.New(),
		RoomID:    roomID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

func (m *Manitto) IsMatched() bool {
	return m != nil && m.ManittoUserID != nil
}

// RoomMember is a room-scoped view of a user.
type RoomMember struct {
	UserID   uuid.UUID `json:"user_id"`
	Nickname string    `json:"nickname"`
}
