package engine

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"video_library_service/internal/library/domain"
	"video_library_service/pkg/logger"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// URL query parameter names
const (
	ParamFilters     = "filters"
	ParamCurriculums = "curriculums"
	ParamSearch      = "search"
	ParamMode        = "mode"
	ParamPage        = "page"
	ParamSort        = "sort"
	ParamDir         = "dir"
	ParamPerPage     = "per_page"
	ParamFavorites   = "favorites"
)

// ParseQuery reads a query state from URL values. Absent parameters keep the
// value of base; malformed ones are logged and fall back to base, except the
// page which falls back to 1.
func ParseQuery(values url.Values, base domain.QueryState) domain.QueryState {
	st := base
	if st.Page < 1 {
		st.Page = 1
	}

	others := base.Selections.WithoutKind(domain.KindCurriculum)
	curriculums := base.Selections.OnlyKind(domain.KindCurriculum)

	if raw, ok := values[ParamFilters]; ok {
		if tokens, ok := decodeTokens(ParamFilters, first(raw)); ok {
			others = domain.Selections{}
			for _, t := range tokens {
				if sel := domain.SelectionFromToken(t); !others.Has(sel) {
					others = append(others, sel)
				}
			}
		}
	}
	if raw, ok := values[ParamCurriculums]; ok {
		if ids, ok := decodeTokens(ParamCurriculums, first(raw)); ok {
			curriculums = domain.Selections{}
			for _, id := range ids {
				if sel := (domain.Selection{Kind: domain.KindCurriculum, ID: id}); !curriculums.Has(sel) {
					curriculums = append(curriculums, sel)
				}
			}
		}
	}
	st.Selections = append(others, curriculums...)

	if _, ok := values[ParamSearch]; ok {
		st.Search = values.Get(ParamSearch)
	}

	if raw, ok := values[ParamMode]; ok {
		switch strings.ToUpper(strings.TrimSpace(first(raw))) {
		case string(domain.ModeAnd):
			st.Mode = domain.ModeAnd
		case string(domain.ModeOr):
			st.Mode = domain.ModeOr
		default:
			logger.Log.Warn("invalid mode in query, keep default", zap.String("mode", first(raw)))
		}
	}

	if raw, ok := values[ParamPage]; ok {
		page, err := strconv.Atoi(strings.TrimSpace(first(raw)))
		if err != nil || page < 1 {
			logger.Log.Warn("invalid page in query, reset to 1", zap.String("page", first(raw)))
			page = 1
		}
		st.Page = page
	}

	if raw, ok := values[ParamPerPage]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(first(raw)))
		if err != nil || !domain.ValidItemsPerPage(n) {
			logger.Log.Warn("invalid per_page in query, keep default", zap.String("per_page", first(raw)))
		} else {
			st.ItemsPerPage = n
		}
	}

	if raw, ok := values[ParamSort]; ok {
		if k, ok := domain.ParseSortKey(first(raw)); ok {
			st.SortKey = k
		} else {
			logger.Log.Warn("invalid sort in query, keep default", zap.String("sort", first(raw)))
		}
	}

	if raw, ok := values[ParamDir]; ok {
		if d, ok := domain.ParseSortDirection(first(raw)); ok {
			st.SortDirection = d
		} else {
			logger.Log.Warn("invalid dir in query, keep default", zap.String("dir", first(raw)))
		}
	}

	if raw, ok := values[ParamFavorites]; ok {
		b, err := strconv.ParseBool(strings.TrimSpace(first(raw)))
		if err != nil {
			logger.Log.Warn("invalid favorites in query, keep default", zap.String("favorites", first(raw)))
		} else {
			st.FavoritesOnly = b
		}
	}

	return st
}

// BuildQuery encodes st as a query string, omitting every value equal to
// base so URLs stay short. ParseQuery(BuildQuery(st, base), base) == st for
// states whose selections list non-curriculum kinds first.
func BuildQuery(st, base domain.QueryState) string {
	values := url.Values{}

	tokens := selectionTokens(st.Selections.WithoutKind(domain.KindCurriculum))
	if !slices.Equal(tokens, selectionTokens(base.Selections.WithoutKind(domain.KindCurriculum))) {
		values.Set(ParamFilters, encodeTokens(tokens))
	}
	curriculums := st.Selections.OfKind(domain.KindCurriculum)
	if !slices.Equal(curriculums, base.Selections.OfKind(domain.KindCurriculum)) {
		values.Set(ParamCurriculums, encodeTokens(curriculums))
	}
	if st.Search != base.Search {
		values.Set(ParamSearch, st.Search)
	}
	if st.Mode != base.Mode {
		values.Set(ParamMode, string(st.Mode))
	}
	if st.Page > 1 {
		values.Set(ParamPage, strconv.Itoa(st.Page))
	}
	if st.ItemsPerPage != base.ItemsPerPage {
		values.Set(ParamPerPage, strconv.Itoa(st.ItemsPerPage))
	}
	if st.SortKey != base.SortKey {
		values.Set(ParamSort, string(st.SortKey))
	}
	if st.SortDirection != base.SortDirection {
		values.Set(ParamDir, string(st.SortDirection))
	}
	if st.FavoritesOnly != base.FavoritesOnly {
		values.Set(ParamFavorites, strconv.FormatBool(st.FavoritesOnly))
	}

	return values.Encode()
}

func decodeTokens(param, raw string) ([]string, bool) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, true
	}
	var tokens []string
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		logger.Log.Warn("malformed filter json in query, keep default",
			zap.String("param", param), zap.String("value", raw), zap.Error(err))
		return nil, false
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	return out, true
}

func encodeTokens(tokens []string) string {
	if tokens == nil {
		tokens = []string{}
	}
	// []string 不會 marshal 失敗
	b, _ := json.Marshal(tokens)
	return string(b)
}

func selectionTokens(sels domain.Selections) []string {
	out := make([]string, 0, len(sels))
	for _, s := range sels {
		out = append(out, s.Token())
	}
	return out
}

func first(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
