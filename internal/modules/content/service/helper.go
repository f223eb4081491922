package content

import (
	"context"
	"fmt"
	"unicode/utf8"

	"anoa.com/scidiscoveries/internal/entity"
	"anoa.com/scidiscoveries/internal/modules/content/dto"
	field "anoa.com/scidiscoveries/internal/modules/field/service"
	"anoa.com/scidiscoveries/pkg/apperror"
	commonDto "anoa.com/scidiscoveries/pkg/dto"
	"anoa.com/scidiscoveries/pkg/slug"
	"anoa.com/scidiscoveries/pkg/validator"
	"github.com/google/uuid"
)

const (
	maxTitleLength    = 255
	maxLinkLength     = 500
	maxKeywordsLength = 500
)

// validateContent checks the merged state of a content item.
func validateContent(c *entity.Content) error {
	validationErr := &apperror.ValidationError{}

	switch c.ContentType {
	case entity.ContentTypeIdea, entity.ContentTypeResource, entity.ContentTypeWebinar, entity.ContentTypeLecture:
	default:
		validationErr.Add("content_type", "must be one of: idea, resource, webinar, lecture")
	}

	switch c.Status {
	case entity.StatusIdea, entity.StatusInProgress, entity.StatusCompleted:
	default:
		validationErr.Add("status", "must be one of: idea, in_progress, completed")
	}

	if c.Title == "" {
		validationErr.Add("title", "this field may not be blank")
	} else if utf8.RuneCountInString(c.Title) > maxTitleLength {
		validationErr.Add("title", fmt.Sprintf("must be at most %d characters", maxTitleLength))
	}

	if c.Description == "" {
		validationErr.Add("description", "this field may not be blank")
	}

	switch {
	case c.Link == "" && entity.RequiresLink(c.ContentType):
		validationErr.Add("link", "a link is required for this content type")
	case c.Link != "" && utf8.RuneCountInString(c.Link) > maxLinkLength:
		validationErr.Add("link", fmt.Sprintf("must be at most %d characters", maxLinkLength))
	case c.Link != "" && !validator.IsURL(c.Link):
		validationErr.Add("link", "enter a valid URL")
	}

	if utf8.RuneCountInString(c.Keywords) > maxKeywordsLength {
		validationErr.Add("keywords", fmt.Sprintf("must be at most %d characters", maxKeywordsLength))
	}

	if len(validationErr.Fields) > 0 {
		return validationErr
	}
	return nil
}

func (s *contentService) generateSlug(ctx context.Context, c *entity.Content) (string, error) {
	base := slug.Truncate(slug.Make(c.Title), slug.MaxBaseLength)
	if base == "" {
		base = fmt.Sprintf("%s-%d", c.ContentType, s.now().Unix())
	}
	return slug.Unique(ctx, base, s.slugTaken)
}

// reservedSlugs are path segments served by static routes under /contents.
var reservedSlugs = map[string]struct{}{
	"fields": {},
	"my":     {},
}

func (s *contentService) slugTaken(ctx context.Context, candidate string) (bool, error) {
	if _, ok := reservedSlugs[candidate]; ok {
		return true, nil
	}
	return s.contentRepo.SlugExists(ctx, candidate)
}

// buildListResponses batches like and top-level comment counts for a page.
func (s *contentService) buildListResponses(ctx context.Context, contents []*entity.Content) ([]dto.ContentListResponse, error) {
	ids := make([]uuid.UUID, 0, len(contents))
	for _, c := range contents {
		ids = append(ids, c.ID)
	}

	likes, err := s.likeRepo.CountByContentIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	comments, err := s.commentRepo.CountByContentIDs(ctx, ids, true)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	out := make([]dto.ContentListResponse, 0, len(contents))
	for _, c := range contents {
		out = append(out, dto.ContentListResponse{
			ID:                     c.ID,
			ContentType:            c.ContentType,
			Title:                  c.Title,
			Slug:                   c.Slug,
			Link:                   c.Link,
			Author:                 commonDto.NewUserShortResponse(&c.Author),
			ScientificFields:       field.ToShortResponses(c.ScientificFields),
			Status:                 c.Status,
			IsPublic:               c.IsPublic,
			IsOpenForCollaboration: c.IsOpenForCollaboration,
			ViewsCount:             c.ViewsCount,
			LikesCount:             likes[c.ID],
			CommentsCount:          comments[c.ID],
			CreatedAt:              c.CreatedAt,
		})
	}
	return out, nil
}

func (s *contentService) buildDetailResponse(ctx context.Context, c *entity.Content, viewerID *uuid.UUID) (*dto.ContentDetailResponse, error) {
	likesCount, err := s.likeRepo.CountByContent(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	liked := false
	if viewerID != nil {
		liked, err = s.likeRepo.Exists(ctx, c.ID, *viewerID)
		if err != nil {
			return nil, err
		}
	}

	comments, err := s.commentService.GetCommentTree(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	counts, err := s.commentRepo.CountByContentIDs(ctx, []uuid.UUID{c.ID}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	return &dto.ContentDetailResponse{
		ID:                     c.ID,
		ContentType:            c.ContentType,
		Title:                  c.Title,
		Slug:                   c.Slug,
		Description:            c.Description,
		Link:                   c.Link,
		Author:                 commonDto.NewUserShortResponse(&c.Author),
		ScientificFields:       field.ToShortResponses(c.ScientificFields),
		Keywords:               c.Keywords,
		Status:                 c.Status,
		IsPublic:               c.IsPublic,
		IsOpenForCollaboration: c.IsOpenForCollaboration,
		ViewsCount:             c.ViewsCount,
		LikesCount:             likesCount,
		Liked:                  liked,
		Comments:               comments,
		CommentsCount:          counts[c.ID],
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}, nil
}
