package dto

const (
	StatusLiked   = "liked"
	StatusUnliked = "unliked"
)

type ToggleLikeResponse struct {
	Status     string `json:"status"`
	LikesCount int64  `json:"likes_count"`
}
