package dto

import (
	"io"

	"github.com/google/uuid"
)

// UserShortResponse is the compact author/follower representation embedded in other payloads.
type UserShortResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	AvatarURL  *string   `json:"avatar_url"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

// Pagination is embedded into list filters bound from the query string.
type Pagination struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// Normalize fills defaults and clamps the limit.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta builds the response metadata for total matching rows.
func (p Pagination) Meta(total int64) PaginationMeta {
	totalPages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		totalPages++
	}
	return PaginationMeta{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       p.Limit,
	}
}

type AvatarFile struct {
	Reader   io.Reader
	FileName string
}
