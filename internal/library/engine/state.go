package engine

import (
	"errors"
	"fmt"

	"video_library_service/internal/library/domain"
)

// ActionType 使用者操作種類
type ActionType string

const (
	// ActionToggleSelection add or remove one filter selection
	ActionToggleSelection ActionType = "toggle_selection"
	// ActionClearSelections drop every filter selection
	ActionClearSelections ActionType = "clear_selections"
	// ActionSetSearch change the free-text search
	ActionSetSearch ActionType = "set_search"
	// ActionSetMode switch between AND and OR
	ActionSetMode ActionType = "set_mode"
	// ActionSetSort change sort key and direction
	ActionSetSort ActionType = "set_sort"
	// ActionSetPage navigate to a page
	ActionSetPage ActionType = "set_page"
	// ActionSetItemsPerPage change the page size
	ActionSetItemsPerPage ActionType = "set_items_per_page"
	// ActionSetFavoritesOnly restrict to favorites
	ActionSetFavoritesOnly ActionType = "set_favorites_only"
)

// Action 一次使用者操作
type Action struct {
	Type          ActionType        `json:"type"`
	Selection     *domain.Selection `json:"selection,omitempty"`
	Search        string            `json:"search,omitempty"`
	Mode          string            `json:"mode,omitempty"`
	SortKey       string            `json:"sort_key,omitempty"`
	SortDirection string            `json:"sort_direction,omitempty"`
	Page          int               `json:"page,omitempty"`
	ItemsPerPage  int               `json:"items_per_page,omitempty"`
	FavoritesOnly bool              `json:"favorites_only,omitempty"`
}

// ErrInvalidAction the action is unknown or carries an invalid value
var ErrInvalidAction = errors.New("invalid action")

// UpdateState applies a to prev and returns the next state. The page goes
// back to 1 whenever the matching set may change (filters, search, mode,
// favorites, page size) and is kept for sort changes and page navigation.
func UpdateState(prev domain.QueryState, a Action) (domain.QueryState, error) {
	next := prev

	switch a.Type {
	case ActionToggleSelection:
		if a.Selection == nil || a.Selection.ID == "" {
			return prev, fmt.Errorf("%w: selection is required", ErrInvalidAction)
		}
		next.Selections = prev.Selections.Toggle(*a.Selection)
		next.Page = 1

	case ActionClearSelections:
		next.Selections = domain.Selections{}
		next.Page = 1

	case ActionSetSearch:
		next.Search = a.Search
		next.Page = 1

	case ActionSetMode:
		next.Mode = domain.ParseMode(a.Mode)
		next.Page = 1

	case ActionSetSort:
		key, ok := domain.ParseSortKey(a.SortKey)
		if !ok {
			return prev, fmt.Errorf("%w: sort key %q", ErrInvalidAction, a.SortKey)
		}
		next.SortKey = key
		if a.SortDirection != "" {
			dir, ok := domain.ParseSortDirection(a.SortDirection)
			if !ok {
				return prev, fmt.Errorf("%w: sort direction %q", ErrInvalidAction, a.SortDirection)
			}
			next.SortDirection = dir
		}

	case ActionSetPage:
		if a.Page < 1 {
			return prev, fmt.Errorf("%w: page %d", ErrInvalidAction, a.Page)
		}
		next.Page = a.Page

	case ActionSetItemsPerPage:
		if !domain.ValidItemsPerPage(a.ItemsPerPage) {
			return prev, fmt.Errorf("%w: items per page %d", ErrInvalidAction, a.ItemsPerPage)
		}
		next.ItemsPerPage = a.ItemsPerPage
		next.Page = 1

	case ActionSetFavoritesOnly:
		next.FavoritesOnly = a.FavoritesOnly
		next.Page = 1

	default:
		return prev, fmt.Errorf("%w: type %q", ErrInvalidAction, a.Type)
	}

	return next, nil
}
