package user

import (
	"context"

	"anoa.com/scidiscoveries/internal/entity"
	followRepo "anoa.com/scidiscoveries/internal/modules/follow/repository"
	"anoa.com/scidiscoveries/internal/modules/user/dto"
)

func buildUserResponse(ctx context.Context, follows followRepo.FollowRepository, user *entity.User) (*dto.UserResponse, error) {
	followers, err := follows.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := follows.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.UserResponse{
		ID:                  user.ID,
		Email:               user.Email,
		Username:            user.Username,
		Role:                user.Role,
		Institution:         user.InstitutionName(),
		EducationLevel:      user.EducationLevel,
		AvatarURL:           user.AvatarURL,
		Bio:                 user.Bio,
		ScientificInterests: user.ScientificInterests,
		Publications:        user.Publications,
		ORCID:               user.ORCID,
		GoogleScholar:       user.GoogleScholar,
		Scopus:              user.Scopus,
		WebOfScience:        user.WebOfScience,
		IsVerified:          user.IsVerified,
		FollowersCount:      followers,
		FollowingCount:      following,
		CreatedAt:           user.CreatedAt,
	}, nil
}
