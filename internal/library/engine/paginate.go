package engine

import "video_library_service/internal/library/domain"

// TotalPages ceil(count / perPage), 0 when count is 0
func TotalPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// ClampPage clamps page into [1, totalPages], an empty set reports page 1
func ClampPage(page, totalPages int) int {
	if page < 1 || totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate slices items for the requested page after clamping it. Invalid
// page sizes fall back to the default.
func Paginate[T any](items []T, page, perPage int) ([]T, domain.PageInfo) {
	if !domain.ValidItemsPerPage(perPage) {
		perPage = domain.DefaultItemsPerPage
	}
	total := TotalPages(len(items), perPage)
	page = ClampPage(page, total)

	info := domain.PageInfo{
		Page:         page,
		ItemsPerPage: perPage,
		TotalPages:   total,
		TotalItems:   len(items),
	}
	if total == 0 {
		return make([]T, 0), info
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, info
}
