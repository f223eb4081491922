package dto

import (
	"time"

	commonDto "anoa.com/scidiscoveries/pkg/dto"
	"github.com/google/uuid"
)

type CreateCommentRequest struct {
	Text     string     `json:"text" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type ReplyResponse struct {
	ID        uuid.UUID                   `json:"id"`
	Author    commonDto.UserShortResponse `json:"author"`
	Text      string                      `json:"text"`
	CreatedAt time.Time                   `json:"created_at"`
}

type CommentResponse struct {
	ID           uuid.UUID                   `json:"id"`
	Author       commonDto.UserShortResponse `json:"author"`
	Text         string                      `json:"text"`
	CreatedAt    time.Time                   `json:"created_at"`
	Replies      []ReplyResponse             `json:"replies"`
	RepliesCount int                         `json:"replies_count"`
}
