package like

import (
	"context"
	"errors"
	"fmt"

	contentRepo "anoa.com/scidiscoveries/internal/modules/content/repository"
	"anoa.com/scidiscoveries/internal/modules/like/dto"
	"anoa.com/scidiscoveries/internal/modules/like/repository"
	"anoa.com/scidiscoveries/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeService interface {
	ToggleLike(ctx context.Context, userID uuid.UUID, slug string) (*dto.ToggleLikeResponse, error)
}

type likeService struct {
	likeRepo    repository.LikeRepository
	contentRepo contentRepo.ContentRepository
}

func NewLikeService(likeRepo repository.LikeRepository, contentRepo contentRepo.ContentRepository) LikeService {
	return &likeService{likeRepo: likeRepo, contentRepo: contentRepo}
}

func (s *likeService) ToggleLike(ctx context.Context, userID uuid.UUID, slug string) (*dto.ToggleLikeResponse, error) {
	content, err := s.contentRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("content not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if !content.VisibleTo(&userID) {
		return nil, fmt.Errorf("content not found: %w", apperror.ErrNotFound)
	}

	liked, err := s.likeRepo.Toggle(ctx, content.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	count, err := s.likeRepo.CountByContent(ctx, content.ID)
	if err != nil {
		return nil, err
	}

	status := dto.StatusUnliked
	if liked {
		status = dto.StatusLiked
	}
	return &dto.ToggleLikeResponse{Status: status, LikesCount: count}, nil
}
