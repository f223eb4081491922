package repository

import (
	"context"

	"anoa.com/scidiscoveries/internal/entity"
	"anoa.com/scidiscoveries/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter narrows a content listing. Zero values mean "no constraint".
type Filter struct {
	FieldSlug              string
	Status                 string
	AuthorID               *uuid.UUID
	ContentType            string
	IsOpenForCollaboration *bool
	Search                 string
	Ordering               string

	// ViewerID widens the public-only listing by the viewer's own private items.
	ViewerID *uuid.UUID
	// IncludePrivate disables the visibility rule entirely, for the author's own listing.
	IncludePrivate bool

	Offset int
	Limit  int
}

var orderings = map[string]string{
	"created_at":   "contents.created_at ASC",
	"-created_at":  "contents.created_at DESC",
	"views_count":  "contents.views_count ASC",
	"-views_count": "contents.views_count DESC",
}

const defaultOrdering = "-created_at"

type ContentRepository interface {
	Create(ctx context.Context, content *entity.Content) error
	FindBySlug(ctx context.Context, slug string) (*entity.Content, error)
	FindAll(ctx context.Context, filter Filter) ([]*entity.Content, int64, error)
	// Update saves scalar columns. A non-nil fields slice replaces the tag set.
	Update(ctx context.Context, content *entity.Content, fields []*entity.ScientificField) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(ctx context.Context, content *entity.Content) error {
	return r.db.WithContext(ctx).Omit("Author").Create(content).Error
}

func (r *contentRepository) FindBySlug(ctx context.Context, slug string) (*entity.Content, error) {
	var content entity.Content
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("ScientificFields", func(db *gorm.DB) *gorm.DB {
			return db.Order("scientific_fields.name ASC")
		}).
		Where("slug = ?", slug).
		First(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) FindAll(ctx context.Context, filter Filter) ([]*entity.Content, int64, error) {
	var contents []*entity.Content
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Content{})

	if !filter.IncludePrivate {
		if filter.ViewerID != nil {
			query = query.Where("contents.is_public = ? OR contents.author_id = ?", true, *filter.ViewerID)
		} else {
			query = query.Where("contents.is_public = ?", true)
		}
	}

	if filter.FieldSlug != "" {
		tagged := r.db.Table("content_scientific_fields AS csf").
			Select("csf.content_id").
			Joins("JOIN scientific_fields sf ON sf.id = csf.scientific_field_id").
			Where("sf.slug = ?", filter.FieldSlug)
		query = query.Where("contents.id IN (?)", tagged)
	}

	if filter.Status != "" {
		query = query.Where("contents.status = ?", filter.Status)
	}

	if filter.AuthorID != nil {
		query = query.Where("contents.author_id = ?", *filter.AuthorID)
	}

	if filter.ContentType != "" {
		query = query.Where("contents.content_type = ?", filter.ContentType)
	}

	if filter.IsOpenForCollaboration != nil {
		query = query.Where("contents.is_open_for_collaboration = ?", *filter.IsOpenForCollaboration)
	}

	if filter.Search != "" {
		pattern := database.ContainsPattern(filter.Search)
		query = query.Where("contents.title ILIKE ? OR contents.description ILIKE ? OR contents.keywords ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := orderings[filter.Ordering]
	if !ok {
		order = orderings[defaultOrdering]
	}

	if err := query.
		Preload("Author").
		Preload("ScientificFields", func(db *gorm.DB) *gorm.DB {
			return db.Order("scientific_fields.name ASC")
		}).
		Order(order).
		Order("contents.id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&contents).Error; err != nil {
		return nil, 0, err
	}

	return contents, total, nil
}

func (r *contentRepository) Update(ctx context.Context, content *entity.Content, fields []*entity.ScientificField) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(content).Error; err != nil {
			return err
		}
		if fields == nil {
			return nil
		}
		if err := tx.Model(content).Association("ScientificFields").Replace(fields); err != nil {
			return err
		}
		content.ScientificFields = fields
		return nil
	})
}

// Delete removes the content together with its likes, comments and field tags.
func (r *contentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_id = ?", id).Delete(&entity.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ? AND parent_id IS NOT NULL", id).Delete(&entity.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", id).Delete(&entity.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM content_scientific_fields WHERE content_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.Content{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *contentRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Content{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
}

func (r *contentRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Content{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
