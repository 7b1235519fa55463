package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}

	return out
}

func TestPaginate(t *testing.T) {
	items := seq(23)

	tests := []struct {
		name      string
		page      int
		perPage   int
		wantPage  int
		wantItems []int
		wantPages int
	}{
		{name: "first page", page: 1, perPage: 10, wantPage: 1, wantItems: seq(10), wantPages: 3},
		{name: "last page holds the rest", page: 3, perPage: 10, wantPage: 3, wantItems: []int{21, 22, 23}, wantPages: 3},
		{name: "page zero is clamped", page: 0, perPage: 10, wantPage: 1, wantItems: seq(10), wantPages: 3},
		{name: "page beyond end is clamped", page: 9, perPage: 10, wantPage: 3, wantItems: []int{21, 22, 23}, wantPages: 3},
		{name: "negative page", page: -4, perPage: 25, wantPage: 1, wantItems: items, wantPages: 1},
		{name: "invalid page size uses default", page: 2, perPage: 0, wantPage: 2, wantItems: seq(20)[10:], wantPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pager := Paginate(items, tt.page, tt.perPage)
			assert.Equal(t, tt.wantItems, got)
			assert.Equal(t, tt.wantPage, pager.Page)
			assert.Equal(t, tt.wantPages, pager.TotalPages)
			assert.Equal(t, 23, pager.TotalItems)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	got, pager := Paginate([]string{}, 3, 10)
	assert.Empty(t, got)
	assert.Equal(t, 1, pager.Page)
	assert.Equal(t, 1, pager.TotalPages)
	assert.Equal(t, 0, pager.From)
	assert.False(t, pager.HasPrev())
	assert.False(t, pager.HasNext())
}

func TestPager_Navigation(t *testing.T) {
	_, pager := Paginate(seq(23), 2, 10)
	assert.True(t, pager.HasPrev())
	assert.True(t, pager.HasNext())
	assert.Equal(t, 1, pager.PrevPage())
	assert.Equal(t, 3, pager.NextPage())
	assert.Equal(t, 11, pager.From)
	assert.Equal(t, 20, pager.To)
}

func TestPageButtons(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{1, 1, []int{1}},
		{2, 5, []int{1, 2, 3, 4, 5}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{2, 10, []int{1, 2, 3, 4, 5}},
		{6, 10, []int{4, 5, 6, 7, 8}},
		{9, 10, []int{6, 7, 8, 9, 10}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{42, 10, []int{6, 7, 8, 9, 10}},
		{0, 7, []int{1, 2, 3, 4, 5}},
		{1, 0, []int{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PageButtons(tt.current, tt.total), "current=%d total=%d", tt.current, tt.total)
	}
}
