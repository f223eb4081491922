package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/scidiscoveries/internal/entity"
	followRepo "anoa.com/scidiscoveries/internal/modules/follow/repository"
	institutionRepo "anoa.com/scidiscoveries/internal/modules/institution/repository"
	institution "anoa.com/scidiscoveries/internal/modules/institution/service"
	"anoa.com/scidiscoveries/internal/modules/user/dto"
	"anoa.com/scidiscoveries/internal/modules/user/repository"
	"anoa.com/scidiscoveries/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
}

type authService struct {
	repo            repository.UserRepository
	institutionRepo institutionRepo.InstitutionRepository
	followRepo      followRepo.FollowRepository
	secret          string
	tokenTTL        time.Duration
	hashCost        int
}

func NewAuthService(repo repository.UserRepository, institutionRepo institutionRepo.InstitutionRepository, followRepo followRepo.FollowRepository, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:            repo,
		institutionRepo: institutionRepo,
		followRepo:      followRepo,
		secret:          secret,
		tokenTTL:        tokenTTL,
		hashCost:        bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.RegisterResponse, error) {
	if input.Password != input.PasswordConfirm {
		return nil, apperror.NewValidationError("password_confirm", "passwords do not match")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if err := s.checkAvailable(ctx, email, username); err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:          email,
		Username:       username,
		Role:           input.Role,
		EducationLevel: input.EducationLevel,
	}
	if user.EducationLevel == "" {
		user.EducationLevel = entity.EducationBachelor
	}

	if strings.TrimSpace(input.Institution) != "" {
		name, err := institution.NormalizeName(input.Institution)
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

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("email or username already taken: %w", apperror.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp, err := buildUserResponse(ctx, s.followRepo, user)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		Message: "user registered successfully",
		User:    resp,
	}, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	resp, err := buildUserResponse(ctx, s.followRepo, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		User:        resp,
	}, nil
}

func (s *authService) checkAvailable(ctx context.Context, email, username string) error {
	validationErr := &apperror.ValidationError{}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		validationErr.Add("email", "a user with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		validationErr.Add("username", "a user with this username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if len(validationErr.Fields) > 0 {
		return validationErr
	}
	return nil
}

func (s *authService) generateToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// renameField re-keys a single-field validation error.
func renameField(err error, from, to string) error {
	var validationErr *apperror.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}
	if msg, ok := validationErr.Fields[from]; ok {
		return apperror.NewValidationError(to, msg)
	}
	return err
}
