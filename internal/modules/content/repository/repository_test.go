package repository

import (
	"context"
	"sync"
	"testing"

	"anoa.com/scidiscoveries/internal/entity"
	"anoa.com/scidiscoveries/internal/testutil/pgtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestIncrementViewsIsAtomic(t *testing.T) {
	db := pgtest.CreateTempDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := pgtest.SeedUser(t, db, "alice")
	content := pgtest.SeedContent(t, db, author, "Quantum sensors", "quantum-sensors")

	const views = 20
	var wg sync.WaitGroup
	for i := 0; i < views; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.IncrementViews(ctx, content.ID))
		}()
	}
	wg.Wait()

	stored, err := repo.FindBySlug(ctx, "quantum-sensors")
	require.NoError(t, err)
	assert.Equal(t, int64(views), stored.ViewsCount)
}

func TestFindAllFilters(t *testing.T) {
	db := pgtest.CreateTempDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := pgtest.SeedUser(t, db, "alice")
	physics := pgtest.SeedField(t, db, "Physics", "physics")
	biology := pgtest.SeedField(t, db, "Biology", "biology")
	pgtest.SeedContent(t, db, author, "100% solar grid", "solar-grid", physics)
	pgtest.SeedContent(t, db, author, "1000 solar panels", "solar-panels", biology)
	pgtest.SeedContent(t, db, author, "Cell_membranes", "cell-membranes", physics, biology)
	pgtest.SeedContent(t, db, author, "Cellomembranes", "cellomembranes")

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"field slug", Filter{FieldSlug: "physics", Ordering: "created_at"}, []string{"solar-grid", "cell-membranes"}},
		{"literal percent", Filter{Search: "100%"}, []string{"solar-grid"}},
		{"literal underscore", Filter{Search: "l_m"}, []string{"cell-membranes"}},
		{"case insensitive", Filter{Search: "SOLAR", Ordering: "created_at"}, []string{"solar-grid", "solar-panels"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Limit = 10
			contents, total, err := repo.FindAll(ctx, tt.filter)
			require.NoError(t, err)

			slugs := make([]string, 0, len(contents))
			for _, c := range contents {
				slugs = append(slugs, c.Slug)
			}
			assert.Equal(t, tt.want, slugs)
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestDeleteRemovesEngagement(t *testing.T) {
	db := pgtest.CreateTempDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := pgtest.SeedUser(t, db, "alice")
	reader := pgtest.SeedUser(t, db, "bob")
	physics := pgtest.SeedField(t, db, "Physics", "physics")
	doomed := pgtest.SeedContent(t, db, author, "Doomed", "doomed", physics)
	kept := pgtest.SeedContent(t, db, author, "Kept", "kept", physics)

	require.NoError(t, db.Omit(clause.Associations).Create(&entity.Like{ContentID: doomed.ID, UserID: reader.ID}).Error)
	top := pgtest.SeedComment(t, db, doomed, reader, nil)
	pgtest.SeedComment(t, db, doomed, author, top)
	pgtest.SeedComment(t, db, kept, reader, nil)

	require.NoError(t, repo.Delete(ctx, doomed.ID))

	count := func(model interface{}, where string, args ...interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
		return n
	}
	assert.Zero(t, count(&entity.Like{}, "content_id = ?", doomed.ID))
	assert.Zero(t, count(&entity.Comment{}, "content_id = ?", doomed.ID))
	assert.Equal(t, int64(1), count(&entity.Comment{}, "content_id = ?", kept.ID))

	var tags int64
	require.NoError(t, db.Table("content_scientific_fields").Where("content_id = ?", doomed.ID).Count(&tags).Error)
	assert.Zero(t, tags)

	_, err := repo.FindBySlug(ctx, "doomed")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, doomed.ID), gorm.ErrRecordNotFound)
}

func TestCreateDuplicateSlug(t *testing.T) {
	db := pgtest.CreateTempDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := pgtest.SeedUser(t, db, "alice")
	pgtest.SeedContent(t, db, author, "Taken", "taken")

	err := repo.Create(ctx, &entity.Content{
		ContentType: entity.ContentTypeIdea,
		Title:       "Taken again",
		Slug:        "taken",
		Description: "d",
		AuthorID:    author.ID,
		Status:      entity.StatusIdea,
		IsPublic:    true,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := repo.SlugExists(ctx, "taken")
	require.NoError(t, err)
	assert.True(t, exists)
}
