package dto

import (
	"time"

	commonDto "anoa.com/scidiscoveries/pkg/dto"
	"github.com/google/uuid"
)

type RegisterInput struct {
	Email           string `json:"email" binding:"required,email,max=254"`
	Username        string `json:"username" binding:"required,min=3,max=150"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	Role            string `json:"role" binding:"required,oneof=student teacher researcher"`
	Institution     string `json:"institution" binding:"max=255"`
	EducationLevel  string `json:"education_level" binding:"omitempty,oneof=incomplete_secondary secondary bachelor master phd doctor"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserInput is bound from JSON or multipart form. Nil means "leave unchanged".
type UpdateUserInput struct {
	Username            *string `json:"username" form:"username" binding:"omitempty,min=3,max=150"`
	Institution         *string `json:"institution" form:"institution" binding:"omitempty,max=255"`
	EducationLevel      *string `json:"education_level" form:"education_level" binding:"omitempty,oneof=incomplete_secondary secondary bachelor master phd doctor"`
	Bio                 *string `json:"bio" form:"bio"`
	ScientificInterests *string `json:"scientific_interests" form:"scientific_interests"`
	Publications        *string `json:"publications" form:"publications"`
	ORCID               *string `json:"orcid" form:"orcid" binding:"omitempty,max=50"`
	GoogleScholar       *string `json:"google_scholar" form:"google_scholar" binding:"omitempty,max=200"`
	Scopus              *string `json:"scopus" form:"scopus" binding:"omitempty,max=200"`
	WebOfScience        *string `json:"web_of_science" form:"web_of_science" binding:"omitempty,max=200"`
}

type UserFilter struct {
	commonDto.Pagination
	Search string `form:"search"`
	Role   string `form:"role" binding:"omitempty,oneof=student teacher researcher"`
}

type UserResponse struct {
	ID                  uuid.UUID `json:"id"`
	Email               string    `json:"email"`
	Username            string    `json:"username"`
	Role                string    `json:"role"`
	Institution         string    `json:"institution"`
	EducationLevel      string    `json:"education_level"`
	AvatarURL           *string   `json:"avatar_url"`
	Bio                 string    `json:"bio"`
	ScientificInterests string    `json:"scientific_interests"`
	Publications        string    `json:"publications"`
	ORCID               string    `json:"orcid"`
	GoogleScholar       string    `json:"google_scholar"`
	Scopus              string    `json:"scopus"`
	WebOfScience        string    `json:"web_of_science"`
	IsVerified          bool      `json:"is_verified"`
	FollowersCount      int64     `json:"followers_count"`
	FollowingCount      int64     `json:"following_count"`
	CreatedAt           time.Time `json:"created_at"`
}

type RegisterResponse struct {
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
}

type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        *UserResponse `json:"user"`
}

type PaginatedUserResponse struct {
	Data []UserResponse           `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
