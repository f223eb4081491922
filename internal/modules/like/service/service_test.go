package like

import (
	"context"
	"testing"

	"anoa.com/scidiscoveries/internal/entity"
	"anoa.com/scidiscoveries/internal/modules/like/dto"
	"anoa.com/scidiscoveries/internal/testutil"
	"anoa.com/scidiscoveries/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addContent(t *testing.T, store *testutil.Store, author *entity.User, slug string, public bool) *entity.Content {
	t.Helper()
	content := &entity.Content{
		ContentType: entity.ContentTypeIdea,
		Title:       slug,
		Slug:        slug,
		Description: "text",
		AuthorID:    author.ID,
		Status:      entity.StatusIdea,
		IsPublic:    public,
	}
	require.NoError(t, store.Contents().Create(context.Background(), content))
	return content
}

func TestToggleLikeAlternates(t *testing.T) {
	store := testutil.NewStore()
	author := store.AddUser("alice")
	fan := store.AddUser("bob")
	content := addContent(t, store, author, "liked-idea", true)
	svc := NewLikeService(store.Likes(), store.Contents())
	ctx := context.Background()

	want := []dto.ToggleLikeResponse{
		{Status: dto.StatusLiked, LikesCount: 1},
		{Status: dto.StatusUnliked, LikesCount: 0},
		{Status: dto.StatusLiked, LikesCount: 1},
	}
	for i, expected := range want {
		res, err := svc.ToggleLike(ctx, fan.ID, content.Slug)
		require.NoError(t, err)
		assert.Equal(t, expected, *res, "toggle %d", i+1)
		assert.LessOrEqual(t, store.LikeRows(content.ID), 1)
	}

	res, err := svc.ToggleLike(ctx, author.ID, content.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.LikesCount)
}

func TestToggleLikeHiddenContent(t *testing.T) {
	store := testutil.NewStore()
	author := store.AddUser("alice")
	stranger := store.AddUser("bob")
	private := addContent(t, store, author, "private", false)
	svc := NewLikeService(store.Likes(), store.Contents())
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, stranger.ID, private.Slug)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.ToggleLike(ctx, stranger.ID, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	res, err := svc.ToggleLike(ctx, author.ID, private.Slug)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusLiked, res.Status)
}
