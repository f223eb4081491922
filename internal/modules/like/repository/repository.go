package repository

import (
	"context"

	"anoa.com/scidiscoveries/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository interface {
	// Toggle removes the like if present, otherwise adds it. Returns the resulting state.
	Toggle(ctx context.Context, contentID, userID uuid.UUID) (bool, error)
	CountByContent(ctx context.Context, contentID uuid.UUID) (int64, error)
	CountByContentIDs(ctx context.Context, contentIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	Exists(ctx context.Context, contentID, userID uuid.UUID) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(ctx context.Context, contentID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("content_id = ? AND user_id = ?", contentID, userID).
		Delete(&entity.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	// zero rows inserted means a concurrent toggle already liked it
	like := &entity.Like{ContentID: contentID, UserID: userID}
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *likeRepository) CountByContent(ctx context.Context, contentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Like{}).
		Where("content_id = ?", contentID).
		Count(&count).Error
	return count, err
}

func (r *likeRepository) CountByContentIDs(ctx context.Context, contentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(contentIDs))
	if len(contentIDs) == 0 {
		return counts, nil
	}

	type result struct {
		ContentID uuid.UUID
		Count     int64
	}
	var results []result

	if err := r.db.WithContext(ctx).
		Model(&entity.Like{}).
		Select("content_id, count(*) as count").
		Where("content_id IN ?", contentIDs).
		Group("content_id").
		Scan(&results).Error; err != nil {
		return nil, err
	}

	for _, res := range results {
		counts[res.ContentID] = res.Count
	}
	return counts, nil
}

func (r *likeRepository) Exists(ctx context.Context, contentID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Like{}).
		Where("content_id = ? AND user_id = ?", contentID, userID).
		Count(&count).Error
	return count > 0, err
}
