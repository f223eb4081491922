package repository

import (
	"context"
	"errors"

	"anoa.com/scidiscoveries/internal/entity"
	"anoa.com/scidiscoveries/pkg/database"
	"gorm.io/gorm"
)

type InstitutionRepository interface {
	Search(ctx context.Context, search string, limit int) ([]*entity.Institution, error)
	FindMostPopular(ctx context.Context, limit int) ([]*entity.Institution, error)
	FindByName(ctx context.Context, name string) (*entity.Institution, error)
	// FirstOrCreate returns the institution named name, creating it when missing.
	// The bool is true when a row was inserted.
	FirstOrCreate(ctx context.Context, name string) (*entity.Institution, bool, error)
}

type institutionRepository struct {
	db *gorm.DB
}

func NewInstitutionRepository(db *gorm.DB) InstitutionRepository {
	return &institutionRepository{db: db}
}

func (r *institutionRepository) Search(ctx context.Context, search string, limit int) ([]*entity.Institution, error) {
	var institutions []*entity.Institution
	if err := r.db.WithContext(ctx).
		Where("name ILIKE ?", database.ContainsPattern(search)).
		Order("name ASC").
		Limit(limit).
		Find(&institutions).Error; err != nil {
		return nil, err
	}
	return institutions, nil
}

func (r *institutionRepository) FindMostPopular(ctx context.Context, limit int) ([]*entity.Institution, error) {
	var institutions []*entity.Institution
	if err := r.db.WithContext(ctx).
		Select("institutions.*").
		Joins("LEFT JOIN users ON users.institution_id = institutions.id").
		Group("institutions.id").
		Order("COUNT(users.id) DESC").
		Order("institutions.name ASC").
		Limit(limit).
		Find(&institutions).Error; err != nil {
		return nil, err
	}
	return institutions, nil
}

func (r *institutionRepository) FindByName(ctx context.Context, name string) (*entity.Institution, error) {
	var institution entity.Institution
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&institution).Error; err != nil {
		return nil, err
	}
	return &institution, nil
}

func (r *institutionRepository) FirstOrCreate(ctx context.Context, name string) (*entity.Institution, bool, error) {
	existing, err := r.FindByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	institution := &entity.Institution{Name: name}
	if err := r.db.WithContext(ctx).Create(institution).Error; err != nil {
		// lost a race with a concurrent insert of the same name
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, findErr := r.FindByName(ctx, name)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return institution, true, nil
}
