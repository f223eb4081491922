package repository

import (
	"context"

	"anoa.com/scidiscoveries/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FieldWithCount is a field row together with the number of content items tagged with it.
type FieldWithCount struct {
	entity.ScientificField
	ContentsCount int64
}

type FieldRepository interface {
	Create(ctx context.Context, field *entity.ScientificField) error
	FindAllWithCounts(ctx context.Context) ([]*FieldWithCount, error)
	FindBySlug(ctx context.Context, slug string) (*entity.ScientificField, error)
	FindByName(ctx context.Context, name string) (*entity.ScientificField, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.ScientificField, error)
	CountContents(ctx context.Context, fieldID uuid.UUID) (int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type fieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepository{db: db}
}

func (r *fieldRepository) Create(ctx context.Context, field *entity.ScientificField) error {
	return r.db.WithContext(ctx).Create(field).Error
}

func (r *fieldRepository) FindAllWithCounts(ctx context.Context) ([]*FieldWithCount, error) {
	var fields []*FieldWithCount
	if err := r.db.WithContext(ctx).
		Model(&entity.ScientificField{}).
		Select("scientific_fields.*, COUNT(csf.content_id) AS contents_count").
		Joins("LEFT JOIN content_scientific_fields csf ON csf.scientific_field_id = scientific_fields.id").
		Group("scientific_fields.id").
		Order("scientific_fields.name ASC").
		Scan(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *fieldRepository) FindBySlug(ctx context.Context, slug string) (*entity.ScientificField, error) {
	var field entity.ScientificField
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *fieldRepository) FindByName(ctx context.Context, name string) (*entity.ScientificField, error) {
	var field entity.ScientificField
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *fieldRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.ScientificField, error) {
	var fields []*entity.ScientificField
	if len(ids) == 0 {
		return fields, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *fieldRepository) CountContents(ctx context.Context, fieldID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("content_scientific_fields").
		Where("scientific_field_id = ?", fieldID).
		Count(&count).Error
	return count, err
}

func (r *fieldRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.ScientificField{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
