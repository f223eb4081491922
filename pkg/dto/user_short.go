package dto

import "anoa.com/scidiscoveries/internal/entity"

func NewUserShortResponse(u *entity.User) UserShortResponse {
	return UserShortResponse{
		ID:         u.ID,
		Username:   u.Username,
		AvatarURL:  u.AvatarURL,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
}

func NewUserShortResponses(users []*entity.User) []UserShortResponse {
	out := make([]UserShortResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserShortResponse(u))
	}
	return out
}
