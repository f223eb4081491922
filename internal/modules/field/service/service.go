package field

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/scidiscoveries/internal/entity"
	"anoa.com/scidiscoveries/internal/modules/field/dto"
	"anoa.com/scidiscoveries/internal/modules/field/repository"
	"anoa.com/scidiscoveries/pkg/apperror"
	"anoa.com/scidiscoveries/pkg/sanitize"
	"anoa.com/scidiscoveries/pkg/slug"
	"gorm.io/gorm"
)

type FieldService interface {
	GetFields(ctx context.Context) ([]dto.FieldResponse, error)
	GetFieldBySlug(ctx context.Context, slug string) (*dto.FieldResponse, error)
	// EnsureField creates the field unless one with the same slug or name exists.
	EnsureField(ctx context.Context, req dto.CreateFieldRequest) (bool, error)
}

type fieldService struct {
	repo repository.FieldRepository
	now  func() time.Time
}

func NewFieldService(repo repository.FieldRepository) FieldService {
	return &fieldService{repo: repo, now: time.Now}
}

func (s *fieldService) GetFields(ctx context.Context) ([]dto.FieldResponse, error) {
	fields, err := s.repo.FindAllWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scientific fields: %w", err)
	}

	responses := make([]dto.FieldResponse, 0, len(fields))
	for _, f := range fields {
		responses = append(responses, toResponse(&f.ScientificField, f.ContentsCount))
	}
	return responses, nil
}

func (s *fieldService) GetFieldBySlug(ctx context.Context, fieldSlug string) (*dto.FieldResponse, error) {
	f, err := s.repo.FindBySlug(ctx, fieldSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("scientific field not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	count, err := s.repo.CountContents(ctx, f.ID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(f, count)
	return &resp, nil
}

func (s *fieldService) EnsureField(ctx context.Context, req dto.CreateFieldRequest) (bool, error) {
	name := sanitize.Line(req.Name)
	if name == "" {
		return false, apperror.NewValidationError("name", "this field is required")
	}

	if req.Slug != "" {
		if _, err := s.repo.FindBySlug(ctx, req.Slug); err == nil {
			return false, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
	}
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	fieldSlug := req.Slug
	if fieldSlug == "" {
		var err error
		if fieldSlug, err = s.generateSlug(ctx, name); err != nil {
			return false, err
		}
	}

	f := &entity.ScientificField{
		Name:        name,
		Slug:        fieldSlug,
		Description: sanitize.Text(req.Description),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create scientific field: %w", err)
	}
	return true, nil
}

// generateSlug keeps field slugs ASCII only.
func (s *fieldService) generateSlug(ctx context.Context, name string) (string, error) {
	base := slug.Truncate(slug.MakeASCII(name), slug.MaxBaseLength)
	if base == "" {
		base = fmt.Sprintf("field-%d", s.now().Unix())
	}
	return slug.Unique(ctx, base, s.repo.SlugExists)
}

// ToShortResponses maps tagged fields for embedding in content payloads.
func ToShortResponses(fields []*entity.ScientificField) []dto.FieldShortResponse {
	out := make([]dto.FieldShortResponse, 0, len(fields))
	for _, f := range fields {
		out = append(out, dto.FieldShortResponse{ID: f.ID, Name: f.Name, Slug: f.Slug})
	}
	return out
}

func toResponse(f *entity.ScientificField, count int64) dto.FieldResponse {
	return dto.FieldResponse{
		ID:            f.ID,
		Name:          f.Name,
		Slug:          f.Slug,
		Description:   f.Description,
		ContentsCount: count,
	}
}
