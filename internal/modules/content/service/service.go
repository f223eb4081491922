package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/scidiscoveries/internal/entity"
	commentRepo "anoa.com/scidiscoveries/internal/modules/comment/repository"
	comment "anoa.com/scidiscoveries/internal/modules/comment/service"
	"anoa.com/scidiscoveries/internal/modules/content/dto"
	"anoa.com/scidiscoveries/internal/modules/content/repository"
	fieldRepo "anoa.com/scidiscoveries/internal/modules/field/repository"
	likeRepo "anoa.com/scidiscoveries/internal/modules/like/repository"
	userRepo "anoa.com/scidiscoveries/internal/modules/user/repository"
	"anoa.com/scidiscoveries/pkg/apperror"
	commonDto "anoa.com/scidiscoveries/pkg/dto"
	"anoa.com/scidiscoveries/pkg/ratelimiter"
	"anoa.com/scidiscoveries/pkg/sanitize"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// slugAttempts bounds how often a create is retried after losing a slug race.
const slugAttempts = 3

type ContentService interface {
	GetContents(ctx context.Context, viewerID *uuid.UUID, filter dto.ContentFilter) (*dto.PaginatedContentResponse, error)
	GetMyContents(ctx context.Context, userID uuid.UUID, filter dto.MyContentFilter) (*dto.PaginatedContentResponse, error)
	// GetUserContents lists public content of a user. ideasOnly forces content_type=idea.
	GetUserContents(ctx context.Context, userID uuid.UUID, filter dto.MyContentFilter, ideasOnly bool) (*dto.PaginatedContentResponse, error)
	// GetContentBySlug counts a view before rendering the detail.
	GetContentBySlug(ctx context.Context, viewerID *uuid.UUID, slug string) (*dto.ContentDetailResponse, error)
	CreateContent(ctx context.Context, userID uuid.UUID, req dto.CreateContentRequest) (*dto.ContentDetailResponse, error)
	UpdateContent(ctx context.Context, userID uuid.UUID, slug string, req dto.UpdateContentRequest) (*dto.ContentDetailResponse, error)
	DeleteContent(ctx context.Context, userID uuid.UUID, slug string) error
}

type contentService struct {
	contentRepo    repository.ContentRepository
	fieldRepo      fieldRepo.FieldRepository
	likeRepo       likeRepo.LikeRepository
	commentRepo    commentRepo.CommentRepository
	commentService comment.CommentService
	userRepo       userRepo.UserRepository
	limiter        ratelimiter.Limiter
	cooldown       time.Duration
	now            func() time.Time
}

func NewContentService(
	contentRepo repository.ContentRepository,
	fieldRepo fieldRepo.FieldRepository,
	likeRepo likeRepo.LikeRepository,
	commentRepo commentRepo.CommentRepository,
	commentService comment.CommentService,
	userRepo userRepo.UserRepository,
	limiter ratelimiter.Limiter,
	cooldown time.Duration,
) ContentService {
	return &contentService{
		contentRepo:    contentRepo,
		fieldRepo:      fieldRepo,
		likeRepo:       likeRepo,
		commentRepo:    commentRepo,
		commentService: commentService,
		userRepo:       userRepo,
		limiter:        limiter,
		cooldown:       cooldown,
		now:            time.Now,
	}
}

func (s *contentService) GetContents(ctx context.Context, viewerID *uuid.UUID, filter dto.ContentFilter) (*dto.PaginatedContentResponse, error) {
	filter.Normalize()

	query := repository.Filter{
		FieldSlug:              strings.TrimSpace(filter.FieldSlug),
		Status:                 filter.Status,
		ContentType:            filter.ContentType,
		IsOpenForCollaboration: filter.IsOpenForCollaboration,
		Search:                 strings.TrimSpace(filter.Search),
		Ordering:               filter.Ordering,
		ViewerID:               viewerID,
		Offset:                 filter.Offset(),
		Limit:                  filter.Limit,
	}
	if filter.Author != "" {
		authorID, err := uuid.Parse(filter.Author)
		if err != nil {
			return nil, apperror.NewValidationError("author", "must be a valid UUID")
		}
		query.AuthorID = &authorID
	}

	return s.list(ctx, query, filter.Pagination)
}

func (s *contentService) GetMyContents(ctx context.Context, userID uuid.UUID, filter dto.MyContentFilter) (*dto.PaginatedContentResponse, error) {
	filter.Normalize()

	return s.list(ctx, repository.Filter{
		AuthorID:       &userID,
		ContentType:    filter.ContentType,
		IncludePrivate: true,
		Offset:         filter.Offset(),
		Limit:          filter.Limit,
	}, filter.Pagination)
}

func (s *contentService) GetUserContents(ctx context.Context, userID uuid.UUID, filter dto.MyContentFilter, ideasOnly bool) (*dto.PaginatedContentResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	filter.Normalize()
	if ideasOnly {
		filter.ContentType = entity.ContentTypeIdea
	}

	return s.list(ctx, repository.Filter{
		AuthorID:    &userID,
		ContentType: filter.ContentType,
		Offset:      filter.Offset(),
		Limit:       filter.Limit,
	}, filter.Pagination)
}

func (s *contentService) GetContentBySlug(ctx context.Context, viewerID *uuid.UUID, slug string) (*dto.ContentDetailResponse, error) {
	content, err := s.findVisible(ctx, viewerID, slug)
	if err != nil {
		return nil, err
	}

	if err := s.contentRepo.IncrementViews(ctx, content.ID); err != nil {
		return nil, fmt.Errorf("failed to count view: %w", err)
	}
	content.ViewsCount++

	return s.buildDetailResponse(ctx, content, viewerID)
}

func (s *contentService) CreateContent(ctx context.Context, userID uuid.UUID, req dto.CreateContentRequest) (*dto.ContentDetailResponse, error) {
	content := &entity.Content{
		ContentType:            req.ContentType,
		Title:                  sanitize.Line(req.Title),
		Description:            sanitize.Text(req.Description),
		Link:                   strings.TrimSpace(req.Link),
		AuthorID:               userID,
		Keywords:               sanitize.Line(req.Keywords),
		Status:                 req.Status,
		IsPublic:               true,
		IsOpenForCollaboration: true,
	}
	if content.ContentType == "" {
		content.ContentType = entity.ContentTypeIdea
	}
	if content.Status == "" {
		content.Status = entity.StatusIdea
	}
	if req.IsPublic != nil {
		content.IsPublic = *req.IsPublic
	}
	if req.IsOpenForCollaboration != nil {
		content.IsOpenForCollaboration = *req.IsOpenForCollaboration
	}

	if err := validateContent(content); err != nil {
		return nil, err
	}

	fields, err := s.loadFields(ctx, req.ScientificFieldIDs)
	if err != nil {
		return nil, err
	}
	content.ScientificFields = fields

	release, err := s.limiter.Acquire(ctx, userID, ratelimiter.ScopeContent, s.cooldown)
	if err != nil {
		return nil, err
	}
	creationFailed := true
	defer func() {
		if creationFailed {
			release()
		}
	}()

	if err := s.createWithSlug(ctx, content); err != nil {
		return nil, err
	}
	creationFailed = false

	created, err := s.contentRepo.FindBySlug(ctx, content.Slug)
	if err != nil {
		return nil, err
	}
	return s.buildDetailResponse(ctx, created, &userID)
}

func (s *contentService) UpdateContent(ctx context.Context, userID uuid.UUID, slug string, req dto.UpdateContentRequest) (*dto.ContentDetailResponse, error) {
	content, err := s.findOwned(ctx, userID, slug)
	if err != nil {
		return nil, err
	}

	if req.ContentType != nil {
		content.ContentType = *req.ContentType
	}
	if req.Title != nil {
		content.Title = sanitize.Line(*req.Title)
	}
	if req.Description != nil {
		content.Description = sanitize.Text(*req.Description)
	}
	if req.Link != nil {
		content.Link = strings.TrimSpace(*req.Link)
	}
	if req.Keywords != nil {
		content.Keywords = sanitize.Line(*req.Keywords)
	}
	if req.Status != nil {
		content.Status = *req.Status
	}
	if req.IsPublic != nil {
		content.IsPublic = *req.IsPublic
	}
	if req.IsOpenForCollaboration != nil {
		content.IsOpenForCollaboration = *req.IsOpenForCollaboration
	}

	if err := validateContent(content); err != nil {
		return nil, err
	}

	var fields []*entity.ScientificField
	if req.ScientificFieldIDs != nil {
		fields, err = s.loadFields(ctx, *req.ScientificFieldIDs)
		if err != nil {
			return nil, err
		}
	}

	if err := s.contentRepo.Update(ctx, content, fields); err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	updated, err := s.contentRepo.FindBySlug(ctx, content.Slug)
	if err != nil {
		return nil, err
	}
	return s.buildDetailResponse(ctx, updated, &userID)
}

func (s *contentService) DeleteContent(ctx context.Context, userID uuid.UUID, slug string) error {
	content, err := s.findOwned(ctx, userID, slug)
	if err != nil {
		return err
	}

	if err := s.contentRepo.Delete(ctx, content.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("content not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete content: %w", err)
	}
	return nil
}

// createWithSlug assigns a free slug and inserts. A concurrent insert of the
// same slug surfaces as ErrDuplicatedKey and triggers a fresh slug.
func (s *contentService) createWithSlug(ctx context.Context, content *entity.Content) error {
	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		content.Slug, err = s.generateSlug(ctx, content)
		if err != nil {
			return fmt.Errorf("failed to generate slug: %w", err)
		}

		err = s.contentRepo.Create(ctx, content)
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("author not found: %w", apperror.ErrUnauthorized)
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create content: %w", err)
		}
	}
	return fmt.Errorf("could not allocate a unique slug: %w", apperror.ErrConflict)
}

func (s *contentService) list(ctx context.Context, filter repository.Filter, page commonDto.Pagination) (*dto.PaginatedContentResponse, error) {
	contents, total, err := s.contentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}

	data, err := s.buildListResponses(ctx, contents)
	if err != nil {
		return nil, err
	}

	return &dto.PaginatedContentResponse{
		Data: data,
		Meta: page.Meta(total),
	}, nil
}

func (s *contentService) findVisible(ctx context.Context, viewerID *uuid.UUID, slug string) (*entity.Content, error) {
	content, err := s.contentRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("content not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if !content.VisibleTo(viewerID) {
		return nil, fmt.Errorf("content not found: %w", apperror.ErrNotFound)
	}
	return content, nil
}

func (s *contentService) findOwned(ctx context.Context, userID uuid.UUID, slug string) (*entity.Content, error) {
	content, err := s.findVisible(ctx, &userID, slug)
	if err != nil {
		return nil, err
	}
	if content.AuthorID != userID {
		return nil, fmt.Errorf("only the author can modify this content: %w", apperror.ErrForbidden)
	}
	return content, nil
}

func (s *contentService) loadFields(ctx context.Context, ids []uuid.UUID) ([]*entity.ScientificField, error) {
	if len(ids) == 0 {
		return []*entity.ScientificField{}, nil
	}

	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	fields, err := s.fieldRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load scientific fields: %w", err)
	}
	if len(fields) != len(unique) {
		return nil, apperror.NewValidationError("scientific_field_ids", "one or more scientific fields do not exist")
	}
	return fields, nil
}
