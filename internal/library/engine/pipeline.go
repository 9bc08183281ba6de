package engine

import "video_library_service/internal/library/domain"

// Output 單次 pipeline 的計算結果
type Output struct {
	Items  []domain.AnnotatedVideo
	Facets domain.Facets
	Page   domain.PageInfo
	// State is the input state with its page clamped
	State domain.QueryState
}

// Run recomputes the visible slice of a snapshot in dependency order:
// level bound, facets, search, facet filters, favorites, sort, paginate.
// snapshot is never modified.
func Run(snapshot []domain.AnnotatedVideo, st domain.QueryState) Output {
	levelled := ApplyLevel(snapshot, st.MaxOrder)
	facets := ExtractFacets(levelled, st.MaxOrder)

	matched := make([]domain.AnnotatedVideo, 0, len(levelled))
	for _, v := range levelled {
		if !MatchesSearch(v, st.Search) {
			continue
		}
		if !MatchesFilters(v, st.Selections, st.Mode) {
			continue
		}
		if st.FavoritesOnly && !v.Favorite {
			continue
		}
		matched = append(matched, v)
	}

	sorted := SortVideos(matched, st.SortKey, st.SortDirection)
	items, page := Paginate(sorted, st.Page, st.ItemsPerPage)

	st.Page = page.Page
	st.ItemsPerPage = page.ItemsPerPage
	return Output{
		Items:  items,
		Facets: facets,
		Page:   page,
		State:  st,
	}
}
