package domain

import (
	"time"

	"github.com/google/uuid"
)

// Room is one secret-gift-exchange event. The admin owns it exclusively and
// is always also a member. IsConfirmed transitions false→true exactly once;
// confirming triggers the matching run.
type Room struct {
	ID             uuid.UUID `json:"id"`
	AdminUserID    uuid.UUID `json:"admin_user_id"`
	InvitationCode string    `json:"invitation_code"`
	Name           string    `json:"name"`
	EndDate        time.Time `json:"end_date"`
	IsConfirmed    bool      `json:"is_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewRoom(adminUserID uuid.UUID, invitationCode string, name string, endDate time.Time) *Room {
	return &Room{
		ID:             uuid.New(),
		AdminUserID:    adminUserID,
		InvitationCode: invitationCode,
		Name:           name,
		EndDate:        endDate,
		CreatedAt:      time.Now().UTC(),
	}
}
