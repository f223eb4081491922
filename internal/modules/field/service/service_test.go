package field

import (
	"context"
	"testing"
	"time"

	"anoa.com/scidiscoveries/internal/entity"
	"anoa.com/scidiscoveries/internal/modules/field/dto"
	"anoa.com/scidiscoveries/internal/modules/field/repository"
	"anoa.com/scidiscoveries/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	fields []*entity.ScientificField
	counts map[uuid.UUID]int64
}

func (f *fakeRepo) Create(ctx context.Context, field *entity.ScientificField) error {
	for _, existing := range f.fields {
		if existing.Slug == field.Slug || existing.Name == field.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	field.ID = uuid.New()
	f.fields = append(f.fields, field)
	return nil
}

func (f *fakeRepo) FindAllWithCounts(ctx context.Context) ([]*repository.FieldWithCount, error) {
	var out []*repository.FieldWithCount
	for _, field := range f.fields {
		out = append(out, &repository.FieldWithCount{ScientificField: *field, ContentsCount: f.counts[field.ID]})
	}
	return out, nil
}

func (f *fakeRepo) FindBySlug(ctx context.Context, slug string) (*entity.ScientificField, error) {
	for _, field := range f.fields {
		if field.Slug == slug {
			return field, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByName(ctx context.Context, name string) (*entity.ScientificField, error) {
	for _, field := range f.fields {
		if field.Name == name {
			return field, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.ScientificField, error) {
	var out []*entity.ScientificField
	for _, field := range f.fields {
		for _, id := range ids {
			if field.ID == id {
				out = append(out, field)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) CountContents(ctx context.Context, fieldID uuid.UUID) (int64, error) {
	return f.counts[fieldID], nil
}

func (f *fakeRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := f.FindBySlug(ctx, slug)
	return err == nil, nil
}

func TestEnsureFieldGeneratesASCIISlug(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewFieldService(repo)
	ctx := context.Background()

	created, err := svc.EnsureField(ctx, dto.CreateFieldRequest{Name: "Café Studies"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "cafe-studies", repo.fields[0].Slug)

	created, err = svc.EnsureField(ctx, dto.CreateFieldRequest{Name: "Café Studies"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.fields, 1)
}

func TestEnsureFieldSlugCollision(t *testing.T) {
	repo := &fakeRepo{fields: []*entity.ScientificField{{ID: uuid.New(), Name: "Data Science", Slug: "data-science"}}}
	svc := NewFieldService(repo)

	created, err := svc.EnsureField(context.Background(), dto.CreateFieldRequest{Name: "Data  science"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "data-science-1", repo.fields[1].Slug)
}

func TestEnsureFieldNonASCIIFallsBack(t *testing.T) {
	repo := &fakeRepo{}
	svc := &fieldService{repo: repo, now: func() time.Time { return time.Unix(1700000000, 0) }}

	created, err := svc.EnsureField(context.Background(), dto.CreateFieldRequest{Name: "Фізика"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "field-1700000000", repo.fields[0].Slug)
}

func TestEnsureFieldKeepsPresetSlug(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewFieldService(repo)

	created, err := svc.EnsureField(context.Background(), dto.CreateFieldRequest{Name: "Фізика", Slug: "fizyka"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "fizyka", repo.fields[0].Slug)
}

func TestGetFieldBySlug(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{
		fields: []*entity.ScientificField{{ID: id, Name: "Фізика", Slug: "fizyka"}},
		counts: map[uuid.UUID]int64{id: 4},
	}
	svc := NewFieldService(repo)

	f, err := svc.GetFieldBySlug(context.Background(), "fizyka")
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.ContentsCount)

	_, err = svc.GetFieldBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
