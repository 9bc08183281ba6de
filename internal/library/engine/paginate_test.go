package engine

import (
	"testing"

	"video_library_service/internal/library/domain"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	videos := numberedVideos(30)

	t.Run("第二頁剩 6 筆", func(t *testing.T) {
		items, info := Paginate(videos, 2, 24)
		assert.Len(t, items, 6)
		assert.Equal(t, domain.PageInfo{Page: 2, ItemsPerPage: 24, TotalPages: 2, TotalItems: 30}, info)
		assert.Equal(t, "n25", items[0].ID)
	})

	t.Run("超出範圍夾到最後一頁", func(t *testing.T) {
		items, info := Paginate(videos, 9999, 24)
		assert.Equal(t, 2, info.Page)
		assert.Len(t, items, 6)
	})

	t.Run("小於 1 夾到第一頁", func(t *testing.T) {
		_, info := Paginate(videos, -4, 12)
		assert.Equal(t, 1, info.Page)
		assert.Equal(t, 3, info.TotalPages)
	})

	t.Run("空集合", func(t *testing.T) {
		items, info := Paginate([]domain.AnnotatedVideo{}, 3, 24)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		assert.Equal(t, domain.PageInfo{Page: 1, ItemsPerPage: 24, TotalPages: 0, TotalItems: 0}, info)
	})

	t.Run("不合法的每頁筆數用預設值", func(t *testing.T) {
		_, info := Paginate(videos, 1, 7)
		assert.Equal(t, domain.DefaultItemsPerPage, info.ItemsPerPage)
	})
}

func TestPaginateCoverage(t *testing.T) {
	for _, n := range []int{0, 1, 11, 12, 13, 47, 96, 100} {
		videos := numberedVideos(n)
		for _, per := range domain.ItemsPerPageChoices {
			_, info := Paginate(videos, 1, per)

			seen := make(map[string]int)
			var all []string
			for p := 1; p <= info.TotalPages; p++ {
				items, _ := Paginate(videos, p, per)
				for _, v := range items {
					seen[v.ID]++
					all = append(all, v.ID)
				}
			}
			if n == 0 {
				assert.Empty(t, all)
				continue
			}
			assert.Equal(t, ids(videos), all, "n=%d per=%d", n, per)
			for id, c := range seen {
				assert.Equal(t, 1, c, "duplicate %s", id)
			}
		}
	}
}
