package repository

import (
	"context"
	"testing"

	"anoa.com/scidiscoveries/internal/testutil/pgtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentTreeAndDelete(t *testing.T) {
	db := pgtest.CreateTempDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := pgtest.SeedUser(t, db, "alice")
	reader := pgtest.SeedUser(t, db, "bob")
	content := pgtest.SeedContent(t, db, author, "Quantum sensors", "quantum-sensors")

	first := pgtest.SeedComment(t, db, content, reader, nil)
	reply := pgtest.SeedComment(t, db, content, author, first)
	second := pgtest.SeedComment(t, db, content, author, nil)

	tree, err := repo.FindTopLevelByContentID(ctx, content.ID)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, first.ID, tree[0].ID)
	assert.Equal(t, "bob", tree[0].Author.Username)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, reply.ID, tree[0].Replies[0].ID)
	assert.Equal(t, "alice", tree[0].Replies[0].Author.Username)
	assert.Empty(t, tree[1].Replies)

	all, err := repo.CountByContentIDs(ctx, []uuid.UUID{content.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all[content.ID])
	top, err := repo.CountByContentIDs(ctx, []uuid.UUID{content.ID}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), top[content.ID])

	require.NoError(t, repo.DeleteWithReplies(ctx, first.ID))

	_, err = repo.FindByID(ctx, reply.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	remaining, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, remaining.ID)

	assert.ErrorIs(t, repo.DeleteWithReplies(ctx, first.ID), gorm.ErrRecordNotFound)
}
