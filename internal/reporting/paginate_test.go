package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateEmpty(t *testing.T) {
	items, meta := Paginate([]int{}, 1, 50)
	assert.Empty(t, items)
	assert.Equal(t, 1, meta.TotalPages)
	assert.Equal(t, 0, meta.TotalCount)
	assert.Equal(t, 1, meta.Page)
}

func TestPaginateLastPartialPage(t *testing.T) {
	data := make([]int, 120)
	for i := range data {
		data[i] = i
	}

	items, meta := Paginate(data, 3, 50)
	require.Len(t, items, 20)
	assert.Equal(t, 100, items[0])
	assert.Equal(t, 119, items[19])
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 120, meta.TotalCount)
}

func TestPaginateClampsPage(t *testing.T) {
	data := []int{1, 2, 3}

	items, meta := Paginate(data, 99, 2)
	assert.Equal(t, []int{3}, items)
	assert.Equal(t, 2, meta.Page)

	items, meta = Paginate(data, 0, 2)
	assert.Equal(t, []int{1, 2}, items)
	assert.Equal(t, 1, meta.Page)

	items, meta = Paginate(data, -5, 2)
	assert.Equal(t, []int{1, 2}, items)
	assert.Equal(t, 1, meta.Page)
}

func TestPaginateDefaultsPageSize(t *testing.T) {
	data := make([]string, 60)
	items, meta := Paginate(data, 1, 0)
	assert.Len(t, items, DefaultPageSize)
	assert.Equal(t, 2, meta.TotalPages)
}
