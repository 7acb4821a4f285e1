package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Pagination{}.Normalize(20, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)

	p = Pagination{Page: -3, PageSize: 500}.Normalize(20, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PageSize)

	p = Pagination{Page: 4, PageSize: 10}.Normalize(20, 100)
	assert.Equal(t, 30, p.Offset())
}

func TestBuildPageInfo(t *testing.T) {
	info := BuildPageInfo(Pagination{Page: 2, PageSize: 10}, 35)
	assert.Equal(t, int64(35), info.Total)
	assert.Equal(t, 4, info.TotalPages)

	info = BuildPageInfo(Pagination{Page: 1, PageSize: 10}, 0)
	assert.Equal(t, 0, info.TotalPages)

	info = BuildPageInfo(Pagination{Page: 1, PageSize: 10}, 10)
	assert.Equal(t, 1, info.TotalPages)
}
