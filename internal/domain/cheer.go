package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cheer is an anonymous encouragement message. ManittoID references the
// giver's relation row, so the receiver is the relation's UserID and the
// sender stays hidden. Cheers are append-only.
type Cheer struct {
	ID          uuid.UUID `json:"id"`
	CheerTypeID uuid.UUID `json:"cheer_type_id"`
	ManittoID   uuid.UUID `json:"manitto_id"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewCheer(cheerTypeID uuid.UUID, manittoID uuid.UUID, message string) *Cheer {
	return &Cheer{
		ID:          uuid.New(),
		CheerTypeID: cheerTypeID,
		ManittoID:   manittoID,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}
}

// CheerType is a cheer category with a template message shown to senders.
type CheerType struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Message string    `json:"message"`
}

// DefaultCheerTypes returns the seeded cheer categories.
func DefaultCheerTypes() []CheerType {
	return []CheerType{
		{ID: uuid.New(), Name: "luck", Message: "오늘 하루도 행운이 가득하길!"},
		{ID: uuid.New(), Name: "love", Message: "당신을 응원하는 사람이 있어요."},
		{ID: uuid.New(), Name: "fire", Message: "오늘도 파이팅!"},
		{ID: uuid.New(), Name: "present", Message: "작은 선물 같은 하루 보내세요."},
	}
}

// CheerRank is one row of the room-wide ranking: how many cheers flowed
// through each relation, ordered by count descending.
type CheerRank struct {
	Rank            int       `json:"rank"`
	UserID          uuid.UUID `json:"user_id"`
	Nickname        string    `json:"nickname"`
	ManittoUserID   uuid.UUID `json:"manitto_user_id"`
	ManittoNickname string    `json:"manitto_nickname"`
	CheerCount      int       `json:"cheer_count"`
}
