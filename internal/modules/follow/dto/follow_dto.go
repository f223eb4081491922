package dto

const (
	StatusFollowed   = "followed"
	StatusUnfollowed = "unfollowed"
)

type FollowResponse struct {
	Status string `json:"status"`
}
