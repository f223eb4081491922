package institution

import (
	"context"
	"strings"
	"testing"

	"anoa.com/scidiscoveries/internal/entity"
	"anoa.com/scidiscoveries/internal/modules/institution/dto"
	"anoa.com/scidiscoveries/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	rows       []*entity.Institution
	userCounts map[uint]int
	lastSearch string
}

func (f *fakeRepo) Search(ctx context.Context, search string, limit int) ([]*entity.Institution, error) {
	f.lastSearch = search
	var out []*entity.Institution
	for _, r := range f.rows {
		if strings.Contains(strings.ToLower(r.Name), strings.ToLower(search)) && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindMostPopular(ctx context.Context, limit int) ([]*entity.Institution, error) {
	out := append([]*entity.Institution(nil), f.rows...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && f.userCounts[out[j].ID] > f.userCounts[out[j-1].ID]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) FindByName(ctx context.Context, name string) (*entity.Institution, error) {
	for _, r := range f.rows {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FirstOrCreate(ctx context.Context, name string) (*entity.Institution, bool, error) {
	if existing, err := f.FindByName(ctx, name); err == nil {
		return existing, false, nil
	}
	inst := &entity.Institution{ID: uint(len(f.rows) + 1), Name: name}
	f.rows = append(f.rows, inst)
	return inst, true, nil
}

func TestGetOrCreate(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewInstitutionService(repo)
	ctx := context.Background()

	first, created, err := svc.GetOrCreate(ctx, dto.CreateInstitutionRequest{Name: "  КПІ   ім. Сікорського "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "КПІ ім. Сікорського", first.Name)

	second, created, err := svc.GetOrCreate(ctx, dto.CreateInstitutionRequest{Name: "кпі ім. сікорського"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.rows, 1)
}

func TestGetOrCreateRejectsBlankName(t *testing.T) {
	svc := NewInstitutionService(&fakeRepo{})

	_, _, err := svc.GetOrCreate(context.Background(), dto.CreateInstitutionRequest{Name: "<b></b>  "})

	var validationErr *apperror.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "name")
}

func TestGetInstitutions(t *testing.T) {
	repo := &fakeRepo{
		rows: []*entity.Institution{
			{ID: 1, Name: "Львівська політехніка"},
			{ID: 2, Name: "Київський університет"},
			{ID: 3, Name: "Харківський університет"},
		},
		userCounts: map[uint]int{1: 1, 2: 5, 3: 3},
	}
	svc := NewInstitutionService(repo)
	ctx := context.Background()

	popular, err := svc.GetInstitutions(ctx, dto.InstitutionFilter{})
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, uint(2), popular[0].ID)
	assert.Equal(t, uint(3), popular[1].ID)

	found, err := svc.GetInstitutions(ctx, dto.InstitutionFilter{Search: "університет"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "університет", repo.lastSearch)
}
