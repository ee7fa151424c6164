package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a participant profile. The short Code (prefix "U") is the public
// identifier clients send with every request; it never changes after signup.
type User struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Nickname  string    `json:"nickname"`
	DeviceID  string    `json:"device_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUser(code string, nickname string, deviceID string) *User {
	return &User{
		ID:        uuid.New(),
		Code:      code,
		Nickname:  nickname,
		DeviceID:  deviceID,
		CreatedAt: time.Now().UTC(),
	}
}
