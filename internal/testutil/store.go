// Package testutil provides in-memory implementations of the repository
// interfaces for service and handler tests.
package testutil

import (
	"sort"
	"strings"
	"sync"
	"time"

	"anoa.com/scidiscoveries/internal/entity"
	"github.com/google/uuid"
)

type pair [2]uuid.UUID

// Store is the shared state behind the fake repositories. The zero value is not usable; call NewStore.
type Store struct {
	mu sync.Mutex

	users         map[uuid.UUID]*entity.User
	institutions  []*entity.Institution
	fields        map[uuid.UUID]*entity.ScientificField
	contents      map[uuid.UUID]*entity.Content
	contentFields map[uuid.UUID][]uuid.UUID
	likes         map[pair]time.Time
	comments      map[uuid.UUID]*entity.Comment
	follows       map[pair]time.Time

	clock time.Time

	// ContentCreateConflicts makes the next N content inserts fail with a duplicate key.
	ContentCreateConflicts int
}

func NewStore() *Store {
	return &Store{
		users:         make(map[uuid.UUID]*entity.User),
		fields:        make(map[uuid.UUID]*entity.ScientificField),
		contents:      make(map[uuid.UUID]*entity.Content),
		contentFields: make(map[uuid.UUID][]uuid.UUID),
		likes:         make(map[pair]time.Time),
		comments:      make(map[uuid.UUID]*entity.Comment),
		follows:       make(map[pair]time.Time),
		clock:         time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so creation order is stable.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// AddUser inserts a user directly and returns a copy of it.
func (s *Store) AddUser(username string) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &entity.User{
		ID:             uuid.New(),
		Email:          strings.ToLower(username) + "@example.com",
		Username:       username,
		Role:           entity.RoleResearcher,
		EducationLevel: entity.EducationBachelor,
		CreatedAt:      s.tick(),
	}
	s.users[u.ID] = u
	cp := *u
	return &cp
}

// AddField inserts a scientific field directly.
func (s *Store) AddField(name, fieldSlug string) *entity.ScientificField {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := &entity.ScientificField{ID: uuid.New(), Name: name, Slug: fieldSlug, CreatedAt: s.tick()}
	s.fields[f.ID] = f
	cp := *f
	return &cp
}

// LikeRows counts stored like rows for a content item.
func (s *Store) LikeRows(contentID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.likes {
		if k[0] == contentID {
			n++
		}
	}
	return n
}

// CommentRows counts stored comments for a content item.
func (s *Store) CommentRows(contentID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.comments {
		if c.ContentID == contentID {
			n++
		}
	}
	return n
}

// ContentViews reads the stored view counter.
func (s *Store) ContentViews(id uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.contents[id]; ok {
		return c.ViewsCount
	}
	return 0
}

func (s *Store) userCopy(id uuid.UUID) (entity.User, bool) {
	u, ok := s.users[id]
	if !ok {
		return entity.User{}, false
	}
	cp := *u
	if u.InstitutionID != nil {
		for _, inst := range s.institutions {
			if inst.ID == *u.InstitutionID {
				i := *inst
				cp.Institution = &i
			}
		}
	}
	return cp, true
}

// hydrateContent returns a copy with Author and ScientificFields populated.
func (s *Store) hydrateContent(c *entity.Content) *entity.Content {
	cp := *c
	cp.Author, _ = s.userCopy(c.AuthorID)

	fields := make([]*entity.ScientificField, 0, len(s.contentFields[c.ID]))
	for _, id := range s.contentFields[c.ID] {
		if f, ok := s.fields[id]; ok {
			fc := *f
			fields = append(fields, &fc)
		}
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	cp.ScientificFields = fields
	return &cp
}

func (s *Store) hydrateComment(c *entity.Comment) *entity.Comment {
	cp := *c
	cp.Author, _ = s.userCopy(c.AuthorID)
	cp.Replies = nil
	cp.Parent = nil
	return &cp
}

func fieldIDs(fields []*entity.ScientificField) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(fields))
	for _, f := range fields {
		ids = append(ids, f.ID)
	}
	return ids
}
