package repository

import (
	"context"

	"anoa.com/scidiscoveries/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	// FindTopLevelByContentID returns top-level comments with their replies, oldest first.
	FindTopLevelByContentID(ctx context.Context, contentID uuid.UUID) ([]*entity.Comment, error)
	CountByContentIDs(ctx context.Context, contentIDs []uuid.UUID, topLevelOnly bool) (map[uuid.UUID]int64, error)
	// DeleteWithReplies removes the comment and every reply under it.
	DeleteWithReplies(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindTopLevelByContentID(ctx context.Context, contentID uuid.UUID) ([]*entity.Comment, error) {
	var comments []*entity.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC").Order("comments.id ASC")
		}).
		Preload("Replies.Author").
		Where("content_id = ? AND parent_id IS NULL", contentID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountByContentIDs(ctx context.Context, contentIDs []uuid.UUID, topLevelOnly bool) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(contentIDs))
	if len(contentIDs) == 0 {
		return counts, nil
	}

	type result struct {
		ContentID uuid.UUID
		Count     int64
	}
	var results []result

	query := r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Select("content_id, count(*) as count").
		Where("content_id IN ?", contentIDs)
	if topLevelOnly {
		query = query.Where("parent_id IS NULL")
	}

	if err := query.Group("content_id").Scan(&results).Error; err != nil {
		return nil, err
	}

	for _, res := range results {
		counts[res.ContentID] = res.Count
	}
	return counts, nil
}

func (r *commentRepository) DeleteWithReplies(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&entity.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.Comment{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
