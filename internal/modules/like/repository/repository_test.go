package repository

import (
	"context"
	"sync"
	"testing"

	"anoa.com/scidiscoveries/internal/entity"
	"anoa.com/scidiscoveries/internal/testutil/pgtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestToggle(t *testing.T) {
	db := pgtest.CreateTempDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := pgtest.SeedUser(t, db, "alice")
	reader := pgtest.SeedUser(t, db, "bob")
	content := pgtest.SeedContent(t, db, author, "Quantum sensors", "quantum-sensors")

	for _, want := range []bool{true, false, true} {
		liked, err := repo.Toggle(ctx, content.ID, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, want, liked)
	}

	count, err := repo.CountByContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = db.Omit(clause.Associations).Create(&entity.Like{ContentID: content.ID, UserID: reader.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestConcurrentTogglesKeepOneRow(t *testing.T) {
	db := pgtest.CreateTempDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	author := pgtest.SeedUser(t, db, "alice")
	reader := pgtest.SeedUser(t, db, "bob")
	content := pgtest.SeedContent(t, db, author, "Quantum sensors", "quantum-sensors")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Toggle(ctx, content.ID, reader.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := repo.CountByContent(ctx, content.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, int64(1))

	counts, err := repo.CountByContentIDs(ctx, []uuid.UUID{content.ID})
	require.NoError(t, err)
	assert.Equal(t, count, counts[content.ID])
}
