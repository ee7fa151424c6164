package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/manitto-app/manitto-server/internal/domain"
	"github.com/manitto-app/manitto-server/internal/service"
)

type RoomResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	InvitationCode string    `json:"invitation_code"`
	EndDate        string    `json:"end_date"`
	IsConfirmed    bool      `json:"is_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

type MemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Nickname string    `json:"nickname"`
}

type RoomInfoResponse struct {
	RoomResponse
	IsAdmin bool             `json:"is_admin"`
	Members []MemberResponse `json:"members"`
}

type RankEntryResponse struct {
	Rank            int       `json:"rank"`
	UserID          uuid.UUID `json:"user_id"`
	Nickname        string    `json:"nickname"`
	ManittoUserID   uuid.UUID `json:"manitto_user_id"`
	ManittoNickname string    `json:"manitto_nickname"`
	CheerCount      int       `json:"cheer_count"`
}

type ResultResponse struct {
	Manitto     MemberResponse      `json:"manitto"`
	CheerCounts map[string]int      `json:"cheer_counts"`
	ManittoRank []RankEntryResponse `json:"manitto_rank"`
}

const endDateLayout = "2006-01-02"

func RoomToApi(r *domain.Room) RoomResponse {
	return RoomResponse{
		ID:             r.ID,
		Name:           r.Name,
		InvitationCode: r.InvitationCode,
		EndDate:        r.EndDate.Format(endDateLayout),
		IsConfirmed:    r.IsConfirmed,
		CreatedAt:      r.CreatedAt,
	}
}

func RoomsToApi(rooms []*domain.Room) []RoomResponse {
	result := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, RoomToApi(r))
	}
	return result
}

func MemberToApi(m *domain.RoomMember) MemberResponse {
	return MemberResponse{UserID: m.UserID, Nickname: m.Nickname}
}

func RoomInfoToApi(info *service.RoomInfo) RoomInfoResponse {
	members := make([]MemberResponse, 0, len(info.Members))
	for _, m := range info.Members {
		members = append(members, MemberToApi(m))
	}
	return RoomInfoResponse{
		RoomResponse: RoomToApi(info.Room),
		IsAdmin:      info.IsAdmin,
		Members:      members,
	}
}

func ResultToApi(result *service.ManittoResult) ResultResponse {
	ranking := make([]RankEntryResponse, 0, len(result.Ranking))
	for _, entry := range result.Ranking {
		ranking = append(ranking, RankEntryResponse{
			Rank:            entry.Rank,
			UserID:          entry.UserID,
			Nickname:        entry.Nickname,
			ManittoUserID:   entry.ManittoUserID,
			ManittoNickname: entry.ManittoNickname,
			CheerCount:      entry.CheerCount,
		})
	}
	return ResultResponse{
		Manitto:     MemberToApi(result.Receiver),
		CheerCounts: result.CheerCounts,
		ManittoRank: ranking,
	}
}
