package domain

import "strings"

// SortKey 排序欄位
type SortKey string

const (
	// SortTitle locale & numeric aware title order
	SortTitle SortKey = "title"
	// SortCreatedAt creation timestamp
	SortCreatedAt SortKey = "created_at"
	// SortCurriculum lowest curriculum display order
	SortCurriculum SortKey = "curriculum"
	// SortCategory primary category name
	SortCategory SortKey = "category"
	// SortRecorded numeric aware recorded label
	SortRecorded SortKey = "recorded"
	// SortViews view count
	SortViews SortKey = "views"
	// SortLastViewed viewer's last view timestamp
	SortLastViewed SortKey = "last_viewed"
)

// SortKeys lists every canonical sort key
var SortKeys = []SortKey{SortTitle, SortCreatedAt, SortCurriculum, SortCategory, SortRecorded, SortViews, SortLastViewed}

var sortKeyAliases = map[string]SortKey{
	"title":       SortTitle,
	"name":        SortTitle,
	"full_name":   SortTitle,
	"created_at":  SortCreatedAt,
	"curriculum":  SortCurriculum,
	"category":    SortCategory,
	"recorded":    SortRecorded,
	"views":       SortViews,
	"view_count":  SortViews,
	"login_count": SortViews,
	"last_viewed": SortLastViewed,
	"last_view":   SortLastViewed,
	"last_login":  SortLastViewed,
}

// ParseSortKey resolves s (or one of its aliases) to a canonical key
func ParseSortKey(s string) (SortKey, bool) {
	k, ok := sortKeyAliases[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

// SortDirection 排序方向
type SortDirection string

const (
	// Asc ascending
	Asc SortDirection = "asc"
	// Desc descending
	Desc SortDirection = "desc"
)

// ParseSortDirection resolves s to a direction
func ParseSortDirection(s string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	}
	return "", false
}

// Sign returns 1 for ascending and -1 for descending
func (d SortDirection) Sign() int {
	if d == Desc {
		return -1
	}
	return 1
}
