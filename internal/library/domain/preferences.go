package domain

import (
	"errors"
	"strings"
)

// ViewMode 顯示模式
type ViewMode string

const (
	// ViewGrid grid layout
	ViewGrid ViewMode = "grid"
	// ViewList list layout
	ViewList ViewMode = "list"
)

// Preferences per-viewer view preferences, namespaced by a caller prefix so
// library, favorites and management views do not collide
type Preferences struct {
	Prefix        string        `json:"prefix" bson:"prefix"`
	ViewerID      string        `json:"viewer_id" bson:"viewer_id"`
	ViewMode      ViewMode      `json:"view_mode" bson:"view_mode"`
	ItemsPerPage  int           `json:"items_per_page" bson:"items_per_page"`
	SortKey       SortKey       `json:"sort_key" bson:"sort_key"`
	SortDirection SortDirection `json:"sort_direction" bson:"sort_direction"`
}

// DefaultPreferences returns the preferences used before anything is saved
func DefaultPreferences(prefix, viewerID string) Preferences {
	return Preferences{
		Prefix:        prefix,
		ViewerID:      viewerID,
		ViewMode:      ViewGrid,
		ItemsPerPage:  DefaultItemsPerPage,
		SortKey:       DefaultSortKey,
		SortDirection: DefaultSortDirection,
	}
}

// Normalize fills invalid fields with defaults and canonicalizes sort keys
func (p Preferences) Normalize() Preferences {
	def := DefaultPreferences(p.Prefix, p.ViewerID)
	if p.ViewMode != ViewGrid && p.ViewMode != ViewList {
		p.ViewMode = def.ViewMode
	}
	if !ValidItemsPerPage(p.ItemsPerPage) {
		p.ItemsPerPage = def.ItemsPerPage
	}
	if k, ok := ParseSortKey(string(p.SortKey)); ok {
		p.SortKey = k
	} else {
		p.SortKey = def.SortKey
	}
	if d, ok := ParseSortDirection(string(p.SortDirection)); ok {
		p.SortDirection = d
	} else {
		p.SortDirection = def.SortDirection
	}
	return p
}

// ValidatePrefix checks a storage namespace prefix
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return ErrInvalidPrefix
	}
	if len(prefix) > 64 || strings.ContainsAny(prefix, " :/\\$.") {
		return ErrInvalidPrefix
	}
	return nil
}

var (
	// ErrInvalidPrefix bad preference namespace
	ErrInvalidPrefix = errors.New("invalid preference prefix")
	// ErrVideoNotFound unknown video id
	ErrVideoNotFound = errors.New("video not found")
	// ErrAnonymousViewer operation needs a known viewer
	ErrAnonymousViewer = errors.New("viewer is anonymous")
)
