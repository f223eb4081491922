package institution

import (
	"context"
	"fmt"
	"unicode/utf8"

	"anoa.com/scidiscoveries/internal/entity"
	"anoa.com/scidiscoveries/internal/modules/institution/dto"
	"anoa.com/scidiscoveries/internal/modules/institution/repository"
	"anoa.com/scidiscoveries/pkg/apperror"
	"anoa.com/scidiscoveries/pkg/sanitize"
)

// ListLimit caps both the search result and the most-popular listing.
const ListLimit = 10

const maxNameLength = 255

type InstitutionService interface {
	GetInstitutions(ctx context.Context, filter dto.InstitutionFilter) ([]dto.InstitutionResponse, error)
	GetOrCreate(ctx context.Context, req dto.CreateInstitutionRequest) (*dto.InstitutionResponse, bool, error)
}

type institutionService struct {
	repo repository.InstitutionRepository
}

func NewInstitutionService(repo repository.InstitutionRepository) InstitutionService {
	return &institutionService{repo: repo}
}

func (s *institutionService) GetInstitutions(ctx context.Context, filter dto.InstitutionFilter) ([]dto.InstitutionResponse, error) {
	search := sanitize.Line(filter.Search)

	var (
		institutions []*entity.Institution
		err          error
	)
	if search != "" {
		institutions, err = s.repo.Search(ctx, search, ListLimit)
	} else {
		institutions, err = s.repo.FindMostPopular(ctx, ListLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list institutions: %w", err)
	}

	responses := make([]dto.InstitutionResponse, 0, len(institutions))
	for _, inst := range institutions {
		responses = append(responses, toResponse(inst))
	}
	return responses, nil
}

func (s *institutionService) GetOrCreate(ctx context.Context, req dto.CreateInstitutionRequest) (*dto.InstitutionResponse, bool, error) {
	name, err := NormalizeName(req.Name)
	if err != nil {
		return nil, false, err
	}

	inst, created, err := s.repo.FirstOrCreate(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save institution: %w", err)
	}

	resp := toResponse(inst)
	return &resp, created, nil
}

// NormalizeName cleans a user supplied institution name and checks its length.
func NormalizeName(name string) (string, error) {
	name = sanitize.Line(name)
	if name == "" {
		return "", apperror.NewValidationError("name", "this field is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", apperror.NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	return name, nil
}

func toResponse(inst *entity.Institution) dto.InstitutionResponse {
	return dto.InstitutionResponse{ID: inst.ID, Name: inst.Name}
}
