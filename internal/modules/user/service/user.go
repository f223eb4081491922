package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"anoa.com/scidiscoveries/internal/entity"
	followRepo "anoa.com/scidiscoveries/internal/modules/follow/repository"
	institutionRepo "anoa.com/scidiscoveries/internal/modules/institution/repository"
	institution "anoa.com/scidiscoveries/internal/modules/institution/service"
	"anoa.com/scidiscoveries/internal/modules/user/dto"
	"anoa.com/scidiscoveries/internal/modules/user/repository"
	"anoa.com/scidiscoveries/pkg/apperror"
	commonDto "anoa.com/scidiscoveries/pkg/dto"
	"anoa.com/scidiscoveries/pkg/logger"
	"anoa.com/scidiscoveries/pkg/sanitize"
	"anoa.com/scidiscoveries/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const avatarFolder = "avatars"

type UserService interface {
	GetUsers(ctx context.Context, filter dto.UserFilter) (*dto.PaginatedUserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	// UpdateUser applies a partial profile update. Only the user themself may update a profile.
	UpdateUser(ctx context.Context, requesterID, targetID uuid.UUID, input dto.UpdateUserInput, avatar *commonDto.AvatarFile) (*dto.UserResponse, error)
}

type userService struct {
	repo            repository.UserRepository
	institutionRepo institutionRepo.InstitutionRepository
	followRepo      followRepo.FollowRepository
	imageStorage    storage.ImageStorage
}

// NewUserService accepts a nil imageStorage; avatar uploads are then rejected.
func NewUserService(repo repository.UserRepository, institutionRepo institutionRepo.InstitutionRepository, followRepo followRepo.FollowRepository, imageStorage storage.ImageStorage) UserService {
	return &userService{
		repo:            repo,
		institutionRepo: institutionRepo,
		followRepo:      followRepo,
		imageStorage:    imageStorage,
	}
}

func (s *userService) GetUsers(ctx context.Context, filter dto.UserFilter) (*dto.PaginatedUserResponse, error) {
	filter.Normalize()

	users, total, err := s.repo.FindAll(ctx, repository.Filter{
		Search: strings.TrimSpace(filter.Search),
		Role:   filter.Role,
		Offset: filter.Offset(),
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	data := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp, err := buildUserResponse(ctx, s.followRepo, u)
		if err != nil {
			return nil, err
		}
		data = append(data, *resp)
	}

	return &dto.PaginatedUserResponse{
		Data: data,
		Meta: filter.Meta(total),
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildUserResponse(ctx, s.followRepo, user)
}

func (s *userService) UpdateUser(ctx context.Context, requesterID, targetID uuid.UUID, input dto.UpdateUserInput, avatar *commonDto.AvatarFile) (*dto.UserResponse, error) {
	if requesterID != targetID {
		return nil, fmt.Errorf("you can only edit your own profile: %w", apperror.ErrForbidden)
	}

	user, err := s.findUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, apperror.NewValidationError("username", "this field may not be blank")
		}
		if username != user.Username {
			if _, err := s.repo.FindByUsername(ctx, username); err == nil {
				return nil, apperror.NewValidationError("username", "a user with this username already exists")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Username = username
		}
	}

	if input.Institution != nil {
		if strings.TrimSpace(*input.Institution) == "" {
			user.InstitutionID = nil
			user.Institution = nil
		} else {
			name, err := institution.NormalizeName(*input.Institution)
			if err != nil {
				return nil, renameField(err, "name", "institution")
			}
			inst, _, err := s.institutionRepo.FirstOrCreate(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve institution: %w", err)
			}
			user.InstitutionID = &inst.ID
			user.Institution = inst
		}
	}

	if input.EducationLevel != nil {
		user.EducationLevel = *input.EducationLevel
	}
	if input.Bio != nil {
		user.Bio = sanitize.Text(*input.Bio)
	}
	if input.ScientificInterests != nil {
		user.ScientificInterests = sanitize.Text(*input.ScientificInterests)
	}
	if input.Publications != nil {
		user.Publications = sanitize.Text(*input.Publications)
	}
	if input.ORCID != nil {
		user.ORCID = strings.TrimSpace(*input.ORCID)
	}
	if input.GoogleScholar != nil {
		user.GoogleScholar = strings.TrimSpace(*input.GoogleScholar)
	}
	if input.Scopus != nil {
		user.Scopus = strings.TrimSpace(*input.Scopus)
	}
	if input.WebOfScience != nil {
		user.WebOfScience = strings.TrimSpace(*input.WebOfScience)
	}

	var previousAvatar string
	if avatar != nil && avatar.Reader != nil {
		if user.AvatarURL != nil {
			previousAvatar = *user.AvatarURL
		}
		if err := s.uploadAvatar(ctx, user, avatar); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		// the row still references the previous avatar, so only the new upload is discarded
		if user.AvatarURL != nil && *user.AvatarURL != previousAvatar {
			s.discardAvatar(ctx, user.ID, *user.AvatarURL)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewValidationError("username", "a user with this username already exists")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if previousAvatar != "" && user.AvatarURL != nil && *user.AvatarURL != previousAvatar {
		s.discardAvatar(ctx, user.ID, previousAvatar)
	}

	return buildUserResponse(ctx, s.followRepo, user)
}

// uploadAvatar stores the new image and points the user at it. The previous
// image is left in place until the row is saved.
func (s *userService) uploadAvatar(ctx context.Context, user *entity.User, avatar *commonDto.AvatarFile) error {
	if s.imageStorage == nil {
		return apperror.New(http.StatusServiceUnavailable, "avatar uploads are not configured", storage.ErrNotConfigured)
	}

	url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, avatarFolder, avatar.FileName)
	if err != nil {
		return err
	}

	user.AvatarURL = &url
	return nil
}

func (s *userService) discardAvatar(ctx context.Context, userID uuid.UUID, url string) {
	if err := s.imageStorage.DeleteImage(ctx, url); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).WithField("url", url).Warn("failed to delete avatar")
	}
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}
