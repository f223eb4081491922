package follow

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/scidiscoveries/internal/modules/follow/dto"
	"anoa.com/scidiscoveries/internal/modules/follow/repository"
	userRepo "anoa.com/scidiscoveries/internal/modules/user/repository"
	"anoa.com/scidiscoveries/pkg/apperror"
	commonDto "anoa.com/scidiscoveries/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowService interface {
	ToggleFollow(ctx context.Context, followerID, targetID uuid.UUID) (*dto.FollowResponse, error)
	GetFollowers(ctx context.Context, userID uuid.UUID) ([]commonDto.UserShortResponse, error)
	GetFollowing(ctx context.Context, userID uuid.UUID) ([]commonDto.UserShortResponse, error)
}

type followService struct {
	repo     repository.FollowRepository
	userRepo userRepo.UserRepository
}

func NewFollowService(repo repository.FollowRepository, userRepo userRepo.UserRepository) FollowService {
	return &followService{repo: repo, userRepo: userRepo}
}

func (s *followService) ToggleFollow(ctx context.Context, followerID, targetID uuid.UUID) (*dto.FollowResponse, error) {
	if followerID == targetID {
		return nil, fmt.Errorf("you cannot follow yourself: %w", apperror.ErrBadRequest)
	}

	if err := s.ensureUser(ctx, targetID); err != nil {
		return nil, err
	}

	followed, err := s.repo.Toggle(ctx, followerID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle follow: %w", err)
	}

	status := dto.StatusUnfollowed
	if followed {
		status = dto.StatusFollowed
	}
	return &dto.FollowResponse{Status: status}, nil
}

func (s *followService) GetFollowers(ctx context.Context, userID uuid.UUID) ([]commonDto.UserShortResponse, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	users, err := s.repo.FindFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return commonDto.NewUserShortResponses(users), nil
}

func (s *followService) GetFollowing(ctx context.Context, userID uuid.UUID) ([]commonDto.UserShortResponse, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	users, err := s.repo.FindFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return commonDto.NewUserShortResponses(users), nil
}

func (s *followService) ensureUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return err
	}
	return nil
}
