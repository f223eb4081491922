package testutil

import (
	"context"
	"sort"
	"strings"

	"anoa.com/scidiscoveries/internal/entity"
	commentRepo "anoa.com/scidiscoveries/internal/modules/comment/repository"
	contentRepo "anoa.com/scidiscoveries/internal/modules/content/repository"
	fieldRepo "anoa.com/scidiscoveries/internal/modules/field/repository"
	followRepo "anoa.com/scidiscoveries/internal/modules/follow/repository"
	institutionRepo "anoa.com/scidiscoveries/internal/modules/institution/repository"
	likeRepo "anoa.com/scidiscoveries/internal/modules/like/repository"
	userRepo "anoa.com/scidiscoveries/internal/modules/user/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) Users() userRepo.UserRepository                      { return &users{s} }
func (s *Store) Institutions() institutionRepo.InstitutionRepository { return &institutions{s} }
func (s *Store) Fields() fieldRepo.FieldRepository                   { return &fields{s} }
func (s *Store) Contents() contentRepo.ContentRepository             { return &contents{s} }
func (s *Store) Likes() likeRepo.LikeRepository                      { return &likes{s} }
func (s *Store) Comments() commentRepo.CommentRepository             { return &comments{s} }
func (s *Store) Follows() followRepo.FollowRepository                { return &follows{s} }

// users

type users struct{ s *Store }

func (r *users) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.s.tick()
	cp := *user
	cp.Institution = nil
	r.s.users[user.ID] = &cp
	return nil
}

func (r *users) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.userCopy(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *users) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			cp, _ := r.s.userCopy(id)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *users) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, u := range r.s.users {
		if u.Username == username {
			cp, _ := r.s.userCopy(id)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *users) FindAll(ctx context.Context, filter userRepo.Filter) ([]*entity.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*entity.User
	search := strings.ToLower(filter.Search)
	for id, u := range r.s.users {
		if search != "" && !strings.Contains(strings.ToLower(u.Username), search) && !strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		cp, _ := r.s.userCopy(id)
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	return paginate(matched, filter.Offset, filter.Limit), int64(len(matched)), nil
}

func (r *users) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, u := range r.s.users {
		if id != user.ID && u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *user
	cp.Institution = nil
	r.s.users[user.ID] = &cp
	return nil
}

// institutions

type institutions struct{ s *Store }

func (r *institutions) Search(ctx context.Context, search string, limit int) ([]*entity.Institution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Institution
	for _, inst := range r.s.institutions {
		if strings.Contains(strings.ToLower(inst.Name), strings.ToLower(search)) {
			cp := *inst
			out = append(out, &cp)
		}
	}
	return paginate(out, 0, limit), nil
}

func (r *institutions) FindMostPopular(ctx context.Context, limit int) ([]*entity.Institution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[uint]int)
	for _, u := range r.s.users {
		if u.InstitutionID != nil {
			counts[*u.InstitutionID]++
		}
	}
	out := make([]*entity.Institution, 0, len(r.s.institutions))
	for _, inst := range r.s.institutions {
		cp := *inst
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return counts[out[i].ID] > counts[out[j].ID] })
	return paginate(out, 0, limit), nil
}

func (r *institutions) FindByName(ctx context.Context, name string) (*entity.Institution, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, inst := range r.s.institutions {
		if strings.EqualFold(inst.Name, name) {
			cp := *inst
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *institutions) FirstOrCreate(ctx context.Context, name string) (*entity.Institution, bool, error) {
	if existing, err := r.FindByName(ctx, name); err == nil {
		return existing, false, nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	inst := &entity.Institution{ID: uint(len(r.s.institutions) + 1), Name: name, CreatedAt: r.s.tick()}
	r.s.institutions = append(r.s.institutions, inst)
	cp := *inst
	return &cp, true, nil
}

// fields

type fields struct{ s *Store }

func (r *fields) Create(ctx context.Context, field *entity.ScientificField) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.fields {
		if f.Slug == field.Slug || f.Name == field.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if field.ID == uuid.Nil {
		field.ID = uuid.New()
	}
	field.CreatedAt = r.s.tick()
	cp := *field
	r.s.fields[field.ID] = &cp
	return nil
}

func (r *fields) FindAllWithCounts(ctx context.Context) ([]*fieldRepo.FieldWithCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*fieldRepo.FieldWithCount, 0, len(r.s.fields))
	for _, f := range r.s.fields {
		out = append(out, &fieldRepo.FieldWithCount{ScientificField: *f, ContentsCount: r.s.countTagged(f.ID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fields) FindBySlug(ctx context.Context, slug string) (*entity.ScientificField, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.fields {
		if f.Slug == slug {
			cp := *f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fields) FindByName(ctx context.Context, name string) (*entity.ScientificField, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.fields {
		if f.Name == name {
			cp := *f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fields) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.ScientificField, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.ScientificField
	for _, id := range ids {
		if f, ok := r.s.fields[id]; ok {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fields) CountContents(ctx context.Context, fieldID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.countTagged(fieldID), nil
}

func (r *fields) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.FindBySlug(ctx, slug)
	return err == nil, nil
}

func (s *Store) countTagged(fieldID uuid.UUID) int64 {
	var n int64
	for _, ids := range s.contentFields {
		for _, id := range ids {
			if id == fieldID {
				n++
			}
		}
	}
	return n
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
