package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{}
	p.Normalize()
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)

	p = Pagination{Page: 3, Limit: 500}
	p.Normalize()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 100, p.Offset())
}

func TestPaginationMeta(t *testing.T) {
	p := Pagination{Page: 2, Limit: 10}

	meta := p.Meta(25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(25), meta.TotalItems)
	assert.Equal(t, 2, meta.CurrentPage)

	assert.Equal(t, 0, p.Meta(0).TotalPages)
	assert.Equal(t, 2, p.Meta(20).TotalPages)
}
