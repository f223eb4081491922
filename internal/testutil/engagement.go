package testutil

import (
	"context"
	"sort"
	"strings"

	"anoa.com/scidiscoveries/internal/entity"
	contentRepo "anoa.com/scidiscoveries/internal/modules/content/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// contents

type contents struct{ s *Store }

func (r *contents) Create(ctx context.Context, content *entity.Content) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.ContentCreateConflicts > 0 {
		r.s.ContentCreateConflicts--
		return gorm.ErrDuplicatedKey
	}
	if _, ok := r.s.users[content.AuthorID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	for _, c := range r.s.contents {
		if c.Slug == content.Slug {
			return gorm.ErrDuplicatedKey
		}
	}

	if content.ID == uuid.Nil {
		content.ID = uuid.New()
	}
	now := r.s.tick()
	content.CreatedAt = now
	content.UpdatedAt = now

	cp := *content
	cp.Author = entity.User{}
	cp.ScientificFields = nil
	r.s.contents[content.ID] = &cp
	r.s.contentFields[content.ID] = fieldIDs(content.ScientificFields)
	return nil
}

func (r *contents) FindBySlug(ctx context.Context, slug string) (*entity.Content, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.contents {
		if c.Slug == slug {
			return r.s.hydrateContent(c), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *contents) FindAll(ctx context.Context, filter contentRepo.Filter) ([]*entity.Content, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*entity.Content
	for _, c := range r.s.contents {
		if !filter.IncludePrivate && !c.VisibleTo(filter.ViewerID) {
			continue
		}
		if filter.AuthorID != nil && c.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ContentType != "" && c.ContentType != filter.ContentType {
			continue
		}
		if filter.IsOpenForCollaboration != nil && c.IsOpenForCollaboration != *filter.IsOpenForCollaboration {
			continue
		}
		if filter.FieldSlug != "" && !r.s.taggedWith(c.ID, filter.FieldSlug) {
			continue
		}
		if filter.Search != "" {
			q := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(c.Title), q) &&
				!strings.Contains(strings.ToLower(c.Description), q) &&
				!strings.Contains(strings.ToLower(c.Keywords), q) {
				continue
			}
		}
		matched = append(matched, r.s.hydrateContent(c))
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch filter.Ordering {
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		case "views_count":
			return a.ViewsCount < b.ViewsCount
		case "-views_count":
			return a.ViewsCount > b.ViewsCount
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	return paginate(matched, filter.Offset, filter.Limit), int64(len(matched)), nil
}

func (r *contents) Update(ctx context.Context, content *entity.Content, fields []*entity.ScientificField) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.contents[content.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	content.UpdatedAt = r.s.tick()
	cp := *content
	cp.Author = entity.User{}
	cp.ScientificFields = nil
	r.s.contents[content.ID] = &cp
	if fields != nil {
		r.s.contentFields[content.ID] = fieldIDs(fields)
		content.ScientificFields = fields
	}
	return nil
}

func (r *contents) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.contents[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for k := range r.s.likes {
		if k[0] == id {
			delete(r.s.likes, k)
		}
	}
	for cid, c := range r.s.comments {
		if c.ContentID == id {
			delete(r.s.comments, cid)
		}
	}
	delete(r.s.contentFields, id)
	delete(r.s.contents, id)
	return nil
}

func (r *contents) IncrementViews(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c, ok := r.s.contents[id]; ok {
		c.ViewsCount++
	}
	return nil
}

func (r *contents) SlugExists(ctx context.Context, slug string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.contents {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) taggedWith(contentID uuid.UUID, fieldSlug string) bool {
	for _, id := range s.contentFields[contentID] {
		if f, ok := s.fields[id]; ok && f.Slug == fieldSlug {
			return true
		}
	}
	return false
}

// likes

type likes struct{ s *Store }

func (r *likes) Toggle(ctx context.Context, contentID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := pair{contentID, userID}
	if _, ok := r.s.likes[k]; ok {
		delete(r.s.likes, k)
		return false, nil
	}
	r.s.likes[k] = r.s.tick()
	return true, nil
}

func (r *likes) CountByContent(ctx context.Context, contentID uuid.UUID) (int64, error) {
	return int64(r.s.LikeRows(contentID)), nil
}

func (r *likes) CountByContentIDs(ctx context.Context, contentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[uuid.UUID]int64, len(contentIDs))
	for _, id := range contentIDs {
		for k := range r.s.likes {
			if k[0] == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (r *likes) Exists(ctx context.Context, contentID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.likes[pair{contentID, userID}]
	return ok, nil
}

// comments

type comments struct{ s *Store }

func (r *comments) Create(ctx context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[comment.AuthorID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.CreatedAt = r.s.tick()
	cp := *comment
	r.s.comments[comment.ID] = &cp
	return nil
}

func (r *comments) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.s.hydrateComment(c), nil
}

func (r *comments) FindTopLevelByContentID(ctx context.Context, contentID uuid.UUID) ([]*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var top []*entity.Comment
	replies := make(map[uuid.UUID][]*entity.Comment)
	for _, c := range r.s.comments {
		if c.ContentID != contentID {
			continue
		}
		if c.ParentID == nil {
			top = append(top, r.s.hydrateComment(c))
		} else {
			replies[*c.ParentID] = append(replies[*c.ParentID], r.s.hydrateComment(c))
		}
	}

	byCreated := func(list []*entity.Comment) {
		sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	}
	byCreated(top)
	for _, c := range top {
		rs := replies[c.ID]
		byCreated(rs)
		c.Replies = rs
	}
	return top, nil
}

func (r *comments) CountByContentIDs(ctx context.Context, contentIDs []uuid.UUID, topLevelOnly bool) (map[uuid.UUID]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := make(map[uuid.UUID]bool, len(contentIDs))
	for _, id := range contentIDs {
		wanted[id] = true
	}

	counts := make(map[uuid.UUID]int64, len(contentIDs))
	for _, c := range r.s.comments {
		if !wanted[c.ContentID] || (topLevelOnly && c.ParentID != nil) {
			continue
		}
		counts[c.ContentID]++
	}
	return counts, nil
}

func (r *comments) DeleteWithReplies(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for cid, c := range r.s.comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(r.s.comments, cid)
		}
	}
	delete(r.s.comments, id)
	return nil
}

// follows

type follows struct{ s *Store }

func (r *follows) Toggle(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := pair{followerID, followingID}
	if _, ok := r.s.follows[k]; ok {
		delete(r.s.follows, k)
		return false, nil
	}
	r.s.follows[k] = r.s.tick()
	return true, nil
}

func (r *follows) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for k := range r.s.follows {
		if k[1] == userID {
			n++
		}
	}
	return n, nil
}

func (r *follows) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for k := range r.s.follows {
		if k[0] == userID {
			n++
		}
	}
	return n, nil
}

func (r *follows) FindFollowers(ctx context.Context, userID uuid.UUID) ([]*entity.User, error) {
	return r.find(userID, 1, 0)
}

func (r *follows) FindFollowing(ctx context.Context, userID uuid.UUID) ([]*entity.User, error) {
	return r.find(userID, 0, 1)
}

// find returns the users on side `other` of edges whose side `self` is userID, newest edge first.
func (r *follows) find(userID uuid.UUID, self, other int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var edges []pair
	for k := range r.s.follows {
		if k[self] == userID {
			edges = append(edges, k)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return r.s.follows[edges[i]].After(r.s.follows[edges[j]]) })

	out := make([]*entity.User, 0, len(edges))
	for _, e := range edges {
		if u, ok := r.s.userCopy(e[other]); ok {
			out = append(out, &u)
		}
	}
	return out, nil
}
