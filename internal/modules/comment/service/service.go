package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/scidiscoveries/internal/entity"
	"anoa.com/scidiscoveries/internal/modules/comment/dto"
	"anoa.com/scidiscoveries/internal/modules/comment/repository"
	contentRepo "anoa.com/scidiscoveries/internal/modules/content/repository"
	"anoa.com/scidiscoveries/pkg/apperror"
	commonDto "anoa.com/scidiscoveries/pkg/dto"
	"anoa.com/scidiscoveries/pkg/ratelimiter"
	"anoa.com/scidiscoveries/pkg/sanitize"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentService interface {
	GetComments(ctx context.Context, viewerID *uuid.UUID, slug string) ([]dto.CommentResponse, error)
	// GetCommentTree skips the visibility check; the caller has already resolved the content.
	GetCommentTree(ctx context.Context, contentID uuid.UUID) ([]dto.CommentResponse, error)
	CreateComment(ctx context.Context, userID uuid.UUID, slug string, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	contentRepo contentRepo.ContentRepository
	limiter     ratelimiter.Limiter
	cooldown    time.Duration
}

func NewCommentService(commentRepo repository.CommentRepository, contentRepo contentRepo.ContentRepository, limiter ratelimiter.Limiter, cooldown time.Duration) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		contentRepo: contentRepo,
		limiter:     limiter,
		cooldown:    cooldown,
	}
}

func (s *commentService) GetComments(ctx context.Context, viewerID *uuid.UUID, slug string) ([]dto.CommentResponse, error) {
	content, err := s.findVisibleContent(ctx, viewerID, slug)
	if err != nil {
		return nil, err
	}
	return s.GetCommentTree(ctx, content.ID)
}

func (s *commentService) GetCommentTree(ctx context.Context, contentID uuid.UUID) ([]dto.CommentResponse, error) {
	comments, err := s.commentRepo.FindTopLevelByContentID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return BuildCommentResponses(comments), nil
}

func (s *commentService) CreateComment(ctx context.Context, userID uuid.UUID, slug string, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	content, err := s.findVisibleContent(ctx, &userID, slug)
	if err != nil {
		return nil, err
	}

	text := sanitize.Text(req.Text)
	if text == "" {
		return nil, apperror.NewValidationError("text", "this field is required")
	}

	if req.ParentID != nil {
		if err := s.validateParent(ctx, content.ID, *req.ParentID); err != nil {
			return nil, err
		}
	}

	release, err := s.limiter.Acquire(ctx, userID, ratelimiter.ScopeComment, s.cooldown)
	if err != nil {
		return nil, err
	}
	creationFailed := true
	defer func() {
		if creationFailed {
			release()
		}
	}()

	comment := &entity.Comment{
		ContentID: content.ID,
		AuthorID:  userID,
		ParentID:  req.ParentID,
		Text:      text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("author not found: %w", apperror.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	creationFailed = false

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	resp := buildCommentResponse(created)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("comment not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	if comment.AuthorID != userID {
		return fmt.Errorf("only the author can delete this comment: %w", apperror.ErrForbidden)
	}

	if err := s.commentRepo.DeleteWithReplies(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("comment not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// validateParent enforces the two-level tree: a reply must target a top-level
// comment of the same content item.
func (s *commentService) validateParent(ctx context.Context, contentID, parentID uuid.UUID) error {
	parent, err := s.commentRepo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewValidationError("parent_id", "comment does not exist")
		}
		return err
	}
	if parent.ContentID != contentID {
		return apperror.NewValidationError("parent_id", "comment belongs to a different content item")
	}
	if parent.IsReply() {
		return apperror.NewValidationError("parent_id", "replies can only be added to top-level comments")
	}
	return nil
}

func (s *commentService) findVisibleContent(ctx context.Context, viewerID *uuid.UUID, slug string) (*entity.Content, error) {
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

func BuildCommentResponses(comments []*entity.Comment) []dto.CommentResponse {
	out := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, buildCommentResponse(c))
	}
	return out
}

func buildCommentResponse(c *entity.Comment) dto.CommentResponse {
	replies := make([]dto.ReplyResponse, 0, len(c.Replies))
	for _, r := range c.Replies {
		replies = append(replies, dto.ReplyResponse{
			ID:        r.ID,
			Author:    commonDto.NewUserShortResponse(&r.Author),
			Text:      r.Text,
			CreatedAt: r.CreatedAt,
		})
	}

	return dto.CommentResponse{
		ID:           c.ID,
		Author:       commonDto.NewUserShortResponse(&c.Author),
		Text:         c.Text,
		CreatedAt:    c.CreatedAt,
		Replies:      replies,
		RepliesCount: len(replies),
	}
}
