package dto

import (
	"time"

	commentDto "anoa.com/scidiscoveries/internal/modules/comment/dto"
	fieldDto "anoa.com/scidiscoveries/internal/modules/field/dto"
	commonDto "anoa.com/scidiscoveries/pkg/dto"
	"github.com/google/uuid"
)

type CreateContentRequest struct {
	ContentType            string      `json:"content_type" binding:"omitempty,oneof=idea resource webinar lecture"`
	Title                  string      `json:"title" binding:"required,max=255"`
	Description            string      `json:"description" binding:"required"`
	Link                   string      `json:"link" binding:"omitempty,max=500"`
	ScientificFieldIDs     []uuid.UUID `json:"scientific_field_ids"`
	Keywords               string      `json:"keywords" binding:"omitempty,max=500"`
	Status                 string      `json:"status" binding:"omitempty,oneof=idea in_progress completed"`
	IsPublic               *bool       `json:"is_public"`
	IsOpenForCollaboration *bool       `json:"is_open_for_collaboration"`
}

// UpdateContentRequest is a partial update. The slug is never changed.
type UpdateContentRequest struct {
	ContentType            *string      `json:"content_type" binding:"omitempty,oneof=idea resource webinar lecture"`
	Title                  *string      `json:"title" binding:"omitempty,max=255"`
	Description            *string      `json:"description"`
	Link                   *string      `json:"link" binding:"omitempty,max=500"`
	ScientificFieldIDs     *[]uuid.UUID `json:"scientific_field_ids"`
	Keywords               *string      `json:"keywords" binding:"omitempty,max=500"`
	Status                 *string      `json:"status" binding:"omitempty,oneof=idea in_progress completed"`
	IsPublic               *bool        `json:"is_public"`
	IsOpenForCollaboration *bool        `json:"is_open_for_collaboration"`
}

type ContentFilter struct {
	commonDto.Pagination
	FieldSlug              string `form:"scientific_field__slug"`
	Status                 string `form:"status" binding:"omitempty,oneof=idea in_progress completed"`
	Author                 string `form:"author" binding:"omitempty,uuid"`
	ContentType            string `form:"content_type" binding:"omitempty,oneof=idea resource webinar lecture"`
	IsOpenForCollaboration *bool  `form:"is_open_for_collaboration"`
	Search                 string `form:"search"`
	Ordering               string `form:"ordering" binding:"omitempty,oneof=created_at -created_at views_count -views_count"`
}

// MyContentFilter narrows the requester's own listing and the per-user listings.
type MyContentFilter struct {
	commonDto.Pagination
	ContentType string `form:"content_type" binding:"omitempty,oneof=idea resource webinar lecture"`
}

type ContentListResponse struct {
	ID                     uuid.UUID                     `json:"id"`
	ContentType            string                        `json:"content_type"`
	Title                  string                        `json:"title"`
	Slug                   string                        `json:"slug"`
	Link                   string                        `json:"link"`
	Author                 commonDto.UserShortResponse   `json:"author"`
	ScientificFields       []fieldDto.FieldShortResponse `json:"scientific_fields"`
	Status                 string                        `json:"status"`
	IsPublic               bool                          `json:"is_public"`
	IsOpenForCollaboration bool                          `json:"is_open_for_collaboration"`
	ViewsCount             int64                         `json:"views_count"`
	LikesCount             int64                         `json:"likes_count"`
	CommentsCount          int64                         `json:"comments_count"`
	CreatedAt              time.Time                     `json:"created_at"`
}

type ContentDetailResponse struct {
	ID                     uuid.UUID                     `json:"id"`
	ContentType            string                        `json:"content_type"`
	Title                  string                        `json:"title"`
	Slug                   string                        `json:"slug"`
	Description            string                        `json:"description"`
	Link                   string                        `json:"link"`
	Author                 commonDto.UserShortResponse   `json:"author"`
	ScientificFields       []fieldDto.FieldShortResponse `json:"scientific_fields"`
	Keywords               string                        `json:"keywords"`
	Status                 string                        `json:"status"`
	IsPublic               bool                          `json:"is_public"`
	IsOpenForCollaboration bool                          `json:"is_open_for_collaboration"`
	ViewsCount             int64                         `json:"views_count"`
	LikesCount             int64                         `json:"likes_count"`
	Liked                  bool                          `json:"liked"`
	Comments               []commentDto.CommentResponse  `json:"comments"`
	CommentsCount          int64                         `json:"comments_count"`
	CreatedAt              time.Time                     `json:"created_at"`
	UpdatedAt              time.Time                     `json:"updated_at"`
}

type PaginatedContentResponse struct {
	Data []ContentListResponse    `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
