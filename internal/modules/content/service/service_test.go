package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/scidiscoveries/internal/entity"
	commentDto "anoa.com/scidiscoveries/internal/modules/comment/dto"
	comment "anoa.com/scidiscoveries/internal/modules/comment/service"
	"anoa.com/scidiscoveries/internal/modules/content/dto"
	"anoa.com/scidiscoveries/internal/testutil"
	"anoa.com/scidiscoveries/pkg/apperror"
	"anoa.com/scidiscoveries/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *testutil.Store
	svc      *contentService
	comments comment.CommentService
}

func newFixture(t *testing.T, limiter ratelimiter.Limiter) *fixture {
	t.Helper()
	if limiter == nil {
		limiter = ratelimiter.New(nil)
	}

	store := testutil.NewStore()
	comments := comment.NewCommentService(store.Comments(), store.Contents(), ratelimiter.New(nil), 0)
	svc := NewContentService(
		store.Contents(),
		store.Fields(),
		store.Likes(),
		store.Comments(),
		comments,
		store.Users(),
		limiter,
		time.Minute,
	).(*contentService)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	return &fixture{store: store, svc: svc, comments: comments}
}

func idea(title string) dto.CreateContentRequest {
	return dto.CreateContentRequest{Title: title, Description: "A description"}
}

func ptr[T any](v T) *T { return &v }

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var validationErr *apperror.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected validation error, got %v", err)
	return validationErr.Fields
}

func TestCreateContentSlugs(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	author := f.store.AddUser("alice")

	first, err := f.svc.CreateContent(ctx, author.ID, idea("Quantum Computing"))
	require.NoError(t, err)
	second, err := f.svc.CreateContent(ctx, author.ID, idea("Quantum Computing"))
	require.NoError(t, err)
	third, err := f.svc.CreateContent(ctx, author.ID, idea("Quantum Computing"))
	require.NoError(t, err)

	assert.Equal(t, "quantum-computing", first.Slug)
	assert.Equal(t, "quantum-computing-1", second.Slug)
	assert.Equal(t, "quantum-computing-2", third.Slug)
	assert.Equal(t, entity.ContentTypeIdea, first.ContentType)
	assert.Equal(t, entity.StatusIdea, first.Status)
	assert.True(t, first.IsPublic)
	assert.True(t, first.IsOpenForCollaboration)
	assert.Equal(t, "alice", first.Author.Username)
}

func TestCreateContentKeepsUnicodeSlug(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("olena")

	res, err := f.svc.CreateContent(context.Background(), author.ID, idea("Фізика твердого тіла"))
	require.NoError(t, err)
	assert.Equal(t, "фізика-твердого-тіла", res.Slug)
}

func TestCreateContentAvoidsRouteSlugs(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	author := f.store.AddUser("alice")

	for title, want := range map[string]string{"Fields": "fields-1", "My": "my-1"} {
		created, err := f.svc.CreateContent(ctx, author.ID, idea(title))
		require.NoError(t, err)
		assert.Equal(t, want, created.Slug)
	}
}

func TestCreateContentFallbackSlug(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")

	req := idea("!!!")
	req.ContentType = entity.ContentTypeWebinar
	req.Link = "https://example.com/webinar"

	res, err := f.svc.CreateContent(context.Background(), author.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "webinar-1700000000", res.Slug)
}

func TestCreateContentSanitizesInput(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")

	req := idea("<b>Bold</b>   idea<script>alert(1)</script>")
	req.Description = "<p>first</p><p>second</p>"

	res, err := f.svc.CreateContent(context.Background(), author.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Bold idea", res.Title)
	assert.Equal(t, "first\nsecond", res.Description)
}

func TestCreateContentRetriesSlugConflict(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")

	f.store.ContentCreateConflicts = slugAttempts - 1
	res, err := f.svc.CreateContent(context.Background(), author.ID, idea("Race"))
	require.NoError(t, err)
	assert.Equal(t, "race", res.Slug)

	f.store.ContentCreateConflicts = slugAttempts
	_, err = f.svc.CreateContent(context.Background(), author.ID, idea("Race again"))
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateContentRequiresLink(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")
	ctx := context.Background()

	for _, contentType := range []string{entity.ContentTypeResource, entity.ContentTypeWebinar, entity.ContentTypeLecture} {
		req := idea("Needs a link")
		req.ContentType = contentType

		_, err := f.svc.CreateContent(ctx, author.ID, req)
		assert.Contains(t, validationFields(t, err), "link", contentType)
	}

	req := idea("Bad link")
	req.ContentType = entity.ContentTypeResource
	req.Link = "not a url"
	_, err := f.svc.CreateContent(ctx, author.ID, req)
	assert.Equal(t, "enter a valid URL", validationFields(t, err)["link"])

	req.Link = "https://arxiv.org/abs/1234.5678"
	res, err := f.svc.CreateContent(ctx, author.ID, req)
	require.NoError(t, err)
	assert.Equal(t, req.Link, res.Link)
}

func TestCreateContentRejectsUnknownField(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")
	physics := f.store.AddField("Фізика", "fizyka")

	req := idea("Tagged")
	req.ScientificFieldIDs = []uuid.UUID{physics.ID, uuid.New()}

	_, err := f.svc.CreateContent(context.Background(), author.ID, req)
	assert.Contains(t, validationFields(t, err), "scientific_field_ids")
}

func TestCreateContentRateLimited(t *testing.T) {
	limiter := &testutil.Limiter{}
	f := newFixture(t, limiter)
	author := f.store.AddUser("alice")
	ctx := context.Background()

	// a failed insert gives the cooldown back
	f.store.ContentCreateConflicts = slugAttempts
	_, err := f.svc.CreateContent(ctx, author.ID, idea("First try"))
	require.Error(t, err)
	assert.Equal(t, 1, limiter.Released)

	_, err = f.svc.CreateContent(ctx, author.ID, idea("Second try"))
	require.NoError(t, err)

	_, err = f.svc.CreateContent(ctx, author.ID, idea("Too soon"))
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
}

func TestUpdateContentKeepsSlug(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")
	ctx := context.Background()
	chem := f.store.AddField("Хімія", "khimiia")

	created, err := f.svc.CreateContent(ctx, author.ID, idea("Original title"))
	require.NoError(t, err)

	updated, err := f.svc.UpdateContent(ctx, author.ID, created.Slug, dto.UpdateContentRequest{
		Title:              ptr("A completely different title"),
		Status:             ptr(entity.StatusInProgress),
		ScientificFieldIDs: &[]uuid.UUID{chem.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "original-title", updated.Slug)
	assert.Equal(t, "A completely different title", updated.Title)
	assert.Equal(t, entity.StatusInProgress, updated.Status)
	assert.Equal(t, "A description", updated.Description)
	require.Len(t, updated.ScientificFields, 1)
	assert.Equal(t, "khimiia", updated.ScientificFields[0].Slug)
}

func TestUpdateContentValidatesMergedState(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")
	ctx := context.Background()

	created, err := f.svc.CreateContent(ctx, author.ID, idea("Plain idea"))
	require.NoError(t, err)

	_, err = f.svc.UpdateContent(ctx, author.ID, created.Slug, dto.UpdateContentRequest{
		ContentType: ptr(entity.ContentTypeLecture),
	})
	assert.Contains(t, validationFields(t, err), "link")

	updated, err := f.svc.UpdateContent(ctx, author.ID, created.Slug, dto.UpdateContentRequest{
		ContentType: ptr(entity.ContentTypeLecture),
		Link:        ptr("https://example.com/lecture"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ContentTypeLecture, updated.ContentType)
}

func TestOnlyAuthorCanModifyContent(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")
	other := f.store.AddUser("bob")
	ctx := context.Background()

	created, err := f.svc.CreateContent(ctx, author.ID, idea("Mine"))
	require.NoError(t, err)

	_, err = f.svc.UpdateContent(ctx, other.ID, created.Slug, dto.UpdateContentRequest{Title: ptr("Stolen")})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = f.svc.DeleteContent(ctx, other.ID, created.Slug)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeleteContentRemovesEngagement(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")
	fan := f.store.AddUser("bob")
	ctx := context.Background()

	created, err := f.svc.CreateContent(ctx, author.ID, idea("Short lived"))
	require.NoError(t, err)

	_, err = f.store.Likes().Toggle(ctx, created.ID, fan.ID)
	require.NoError(t, err)
	_, err = f.comments.CreateComment(ctx, fan.ID, created.Slug, commentDto.CreateCommentRequest{Text: "nice"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteContent(ctx, author.ID, created.Slug))

	assert.Zero(t, f.store.LikeRows(created.ID))
	assert.Zero(t, f.store.CommentRows(created.ID))
	_, err = f.svc.GetContentBySlug(ctx, &author.ID, created.Slug)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPrivateContentVisibility(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")
	stranger := f.store.AddUser("bob")
	ctx := context.Background()

	req := idea("Secret draft")
	req.IsPublic = ptr(false)
	created, err := f.svc.CreateContent(ctx, author.ID, req)
	require.NoError(t, err)
	_, err = f.svc.CreateContent(ctx, stranger.ID, idea("Public note"))
	require.NoError(t, err)

	anonymous, err := f.svc.GetContents(ctx, nil, dto.ContentFilter{})
	require.NoError(t, err)
	assert.Len(t, anonymous.Data, 1)
	assert.Equal(t, int64(1), anonymous.Meta.TotalItems)

	asAuthor, err := f.svc.GetContents(ctx, &author.ID, dto.ContentFilter{})
	require.NoError(t, err)
	assert.Len(t, asAuthor.Data, 2)

	_, err = f.svc.GetContentBySlug(ctx, nil, created.Slug)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = f.svc.GetContentBySlug(ctx, &stranger.ID, created.Slug)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	detail, err := f.svc.GetContentBySlug(ctx, &author.ID, created.Slug)
	require.NoError(t, err)
	assert.False(t, detail.IsPublic)

	mine, err := f.svc.GetMyContents(ctx, author.ID, dto.MyContentFilter{})
	require.NoError(t, err)
	assert.Len(t, mine.Data, 1)

	public, err := f.svc.GetUserContents(ctx, author.ID, dto.MyContentFilter{}, false)
	require.NoError(t, err)
	assert.Empty(t, public.Data)
}

func TestDetailFetchCountsViews(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")
	ctx := context.Background()

	created, err := f.svc.CreateContent(ctx, author.ID, idea("Popular"))
	require.NoError(t, err)
	assert.Zero(t, created.ViewsCount)

	const n = 5
	var last *dto.ContentDetailResponse
	for i := 0; i < n; i++ {
		last, err = f.svc.GetContentBySlug(ctx, nil, created.Slug)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(n), last.ViewsCount)
	assert.Equal(t, int64(n), f.store.ContentViews(created.ID))
}

func TestCommentCounts(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")
	reader := f.store.AddUser("bob")
	ctx := context.Background()

	created, err := f.svc.CreateContent(ctx, author.ID, idea("Discussed"))
	require.NoError(t, err)

	top, err := f.comments.CreateComment(ctx, reader.ID, created.Slug, commentDto.CreateCommentRequest{Text: "question"})
	require.NoError(t, err)
	_, err = f.comments.CreateComment(ctx, author.ID, created.Slug, commentDto.CreateCommentRequest{Text: "answer", ParentID: &top.ID})
	require.NoError(t, err)
	_, err = f.store.Likes().Toggle(ctx, created.ID, reader.ID)
	require.NoError(t, err)

	list, err := f.svc.GetContents(ctx, nil, dto.ContentFilter{})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, int64(1), list.Data[0].CommentsCount)
	assert.Equal(t, int64(1), list.Data[0].LikesCount)

	detail, err := f.svc.GetContentBySlug(ctx, &reader.ID, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.CommentsCount)
	assert.True(t, detail.Liked)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, 1, detail.Comments[0].RepliesCount)

	anonymous, err := f.svc.GetContentBySlug(ctx, nil, created.Slug)
	require.NoError(t, err)
	assert.False(t, anonymous.Liked)
}

func TestGetContentsFilters(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.store.AddUser("alice")
	bob := f.store.AddUser("bob")
	ctx := context.Background()
	bio := f.store.AddField("Біологія", "biolohiia")

	tagged := idea("Cell biology")
	tagged.ScientificFieldIDs = []uuid.UUID{bio.ID}
	tagged.Keywords = "cells, microscopy"
	_, err := f.svc.CreateContent(ctx, alice.ID, tagged)
	require.NoError(t, err)

	closed := idea("Solo work")
	closed.IsOpenForCollaboration = ptr(false)
	closed.Status = entity.StatusCompleted
	_, err = f.svc.CreateContent(ctx, bob.ID, closed)
	require.NoError(t, err)

	lecture := idea("Recorded lecture")
	lecture.ContentType = entity.ContentTypeLecture
	lecture.Link = "https://example.com/video"
	_, err = f.svc.CreateContent(ctx, bob.ID, lecture)
	require.NoError(t, err)

	cases := []struct {
		name   string
		filter dto.ContentFilter
		want   []string
	}{
		{"by field", dto.ContentFilter{FieldSlug: "biolohiia"}, []string{"cell-biology"}},
		{"by author", dto.ContentFilter{Author: bob.ID.String()}, []string{"recorded-lecture", "solo-work"}},
		{"by type", dto.ContentFilter{ContentType: entity.ContentTypeLecture}, []string{"recorded-lecture"}},
		{"by status", dto.ContentFilter{Status: entity.StatusCompleted}, []string{"solo-work"}},
		{"closed only", dto.ContentFilter{IsOpenForCollaboration: ptr(false)}, []string{"solo-work"}},
		{"keyword search", dto.ContentFilter{Search: "microscopy"}, []string{"cell-biology"}},
		{"oldest first", dto.ContentFilter{Ordering: "created_at"}, []string{"cell-biology", "solo-work", "recorded-lecture"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := f.svc.GetContents(ctx, nil, tc.filter)
			require.NoError(t, err)

			var slugs []string
			for _, item := range res.Data {
				slugs = append(slugs, item.Slug)
			}
			assert.Equal(t, tc.want, slugs)
		})
	}
}

func TestGetContentsPaginates(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")
	ctx := context.Background()

	for _, title := range []string{"One", "Two", "Three"} {
		_, err := f.svc.CreateContent(ctx, author.ID, idea(title))
		require.NoError(t, err)
	}

	filter := dto.ContentFilter{}
	filter.Page = 2
	filter.Limit = 2
	res, err := f.svc.GetContents(ctx, nil, filter)
	require.NoError(t, err)

	require.Len(t, res.Data, 1)
	assert.Equal(t, "one", res.Data[0].Slug)
	assert.Equal(t, 2, res.Meta.TotalPages)
	assert.Equal(t, int64(3), res.Meta.TotalItems)
}

func TestGetUserContents(t *testing.T) {
	f := newFixture(t, nil)
	author := f.store.AddUser("alice")
	ctx := context.Background()

	_, err := f.svc.CreateContent(ctx, author.ID, idea("An idea"))
	require.NoError(t, err)
	resource := idea("A resource")
	resource.ContentType = entity.ContentTypeResource
	resource.Link = "https://example.com/dataset"
	_, err = f.svc.CreateContent(ctx, author.ID, resource)
	require.NoError(t, err)

	ideas, err := f.svc.GetUserContents(ctx, author.ID, dto.MyContentFilter{ContentType: entity.ContentTypeResource}, true)
	require.NoError(t, err)
	require.Len(t, ideas.Data, 1)
	assert.Equal(t, "an-idea", ideas.Data[0].Slug)

	resources, err := f.svc.GetUserContents(ctx, author.ID, dto.MyContentFilter{ContentType: entity.ContentTypeResource}, false)
	require.NoError(t, err)
	require.Len(t, resources.Data, 1)
	assert.Equal(t, "a-resource", resources.Data[0].Slug)

	_, err = f.svc.GetUserContents(ctx, uuid.New(), dto.MyContentFilter{}, false)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
