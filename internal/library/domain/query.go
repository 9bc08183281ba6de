package domain

import "time"

const (
	// DefaultItemsPerPage page size used when none is chosen
	DefaultItemsPerPage = 24
	// DefaultSortKey newest first
	DefaultSortKey = SortCreatedAt
	// DefaultSortDirection newest first
	DefaultSortDirection = Desc
)

// ItemsPerPageChoices allowed page sizes
var ItemsPerPageChoices = []int{12, 24, 48, 96}

// ValidItemsPerPage reports whether n is one of the allowed page sizes
func ValidItemsPerPage(n int) bool {
	for _, c := range ItemsPerPageChoices {
		if c == n {
			return true
		}
	}
	return false
}

// QueryState 一次查詢的完整狀態，與 URL query string 互相轉換
type QueryState struct {
	Selections    Selections    `json:"selections"`
	Mode          Mode          `json:"mode"`
	Search        string        `json:"search"`
	Page          int           `json:"page"`
	ItemsPerPage  int           `json:"items_per_page"`
	SortKey       SortKey       `json:"sort_key"`
	SortDirection SortDirection `json:"sort_direction"`
	FavoritesOnly bool          `json:"favorites_only"`
	// MaxOrder caps visible curriculums ("my level" view), nil means no cap
	MaxOrder *int `json:"max_order,omitempty"`
}

// DefaultQueryState returns the state of a fresh library view
func DefaultQueryState() QueryState {
	return QueryState{
		Selections:    Selections{},
		Mode:          ModeAnd,
		Page:          1,
		ItemsPerPage:  DefaultItemsPerPage,
		SortKey:       DefaultSortKey,
		SortDirection: DefaultSortDirection,
	}
}

// PageInfo 分頁資訊
type PageInfo struct {
	Page         int `json:"page"`
	ItemsPerPage int `json:"items_per_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
}

// Facets 可供篩選的選項
type Facets struct {
	Categories  []Category   `json:"categories"`
	Curriculums []Curriculum `json:"curriculums"`
	Performers  []Performer  `json:"performers"`
	Recorded    []string     `json:"recorded"`
	ViewBuckets []string     `json:"view_buckets"`
}

// LoadStatus 目前 catalog 載入狀態
type LoadStatus string

const (
	// StatusIdle nothing loaded yet
	StatusIdle LoadStatus = "idle"
	// StatusLoading a load cycle is running
	StatusLoading LoadStatus = "loading"
	// StatusReady fresh data
	StatusReady LoadStatus = "ready"
	// StatusDegraded stale or empty data served after a failure
	StatusDegraded LoadStatus = "degraded"
)

// QueryResult 查詢結果
type QueryResult struct {
	Items       []AnnotatedVideo `json:"items"`
	Facets      Facets           `json:"facets"`
	Page        PageInfo         `json:"page"`
	State       QueryState       `json:"state"`
	QueryString string           `json:"query_string"`
	Status      LoadStatus       `json:"status"`
	Empty       bool             `json:"empty"`
	LoadedAt    time.Time        `json:"loaded_at"`
}
