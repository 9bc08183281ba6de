package domain

import "strings"

// FilterKind 篩選條件種類
type FilterKind string

const (
	// KindCategory plain category id
	KindCategory FilterKind = "category"
	// KindCurriculum curriculum (belt) id
	KindCurriculum FilterKind = "curriculum"
	// KindPerformer performer id
	KindPerformer FilterKind = "performer"
	// KindRecorded free-text recorded label
	KindRecorded FilterKind = "recorded"
	// KindViewBucket view-count bucket
	KindViewBucket FilterKind = "viewBucket"
)

// FilterKinds lists every kind in the order their groups are evaluated
var FilterKinds = []FilterKind{KindCategory, KindPerformer, KindRecorded, KindViewBucket, KindCurriculum}

// legacy URL token prefixes
const (
	recordedPrefix  = "recorded:"
	performerPrefix = "performer:"
	viewsPrefix     = "views:"
)

// Selection is one selected filter value tagged with its kind
type Selection struct {
	Kind FilterKind `json:"kind"`
	ID   string     `json:"id"`
}

// Mode 篩選組合模式
type Mode string

const (
	// ModeAnd every contributing group must match (default)
	ModeAnd Mode = "AND"
	// ModeOr at least one contributing group must match
	ModeOr Mode = "OR"
)

// ParseMode returns ModeOr for "OR" (any case) and ModeAnd otherwise
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeOr)) {
		return ModeOr
	}
	return ModeAnd
}

// SelectionFromToken converts a legacy category-like URL token into a
// tagged selection. Unprefixed tokens are category ids.
func SelectionFromToken(token string) Selection {
	switch {
	case strings.HasPrefix(token, recordedPrefix):
		return Selection{Kind: KindRecorded, ID: strings.TrimPrefix(token, recordedPrefix)}
	case strings.HasPrefix(token, performerPrefix):
		return Selection{Kind: KindPerformer, ID: strings.TrimPrefix(token, performerPrefix)}
	case strings.HasPrefix(token, viewsPrefix):
		return Selection{Kind: KindViewBucket, ID: strings.TrimPrefix(token, viewsPrefix)}
	default:
		return Selection{Kind: KindCategory, ID: token}
	}
}

// Token converts the selection back into its legacy URL token. Curriculum
// selections travel in their own parameter and return their bare id.
func (s Selection) Token() string {
	switch s.Kind {
	case KindRecorded:
		return recordedPrefix + s.ID
	case KindPerformer:
		return performerPrefix + s.ID
	case KindViewBucket:
		return viewsPrefix + s.ID
	default:
		return s.ID
	}
}

// Selections 一組已選的篩選條件
type Selections []Selection

// Has reports whether sel is part of the set
func (ss Selections) Has(sel Selection) bool {
	for _, s := range ss {
		if s == sel {
			return true
		}
	}
	return false
}

// Toggle returns a new set with sel removed if present, appended otherwise
func (ss Selections) Toggle(sel Selection) Selections {
	out := make(Selections, 0, len(ss)+1)
	found := false
	for _, s := range ss {
		if s == sel {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, sel)
	}
	return out
}

// Group returns the ids selected for each kind, kinds without selections
// are absent from the map
func (ss Selections) Group() map[FilterKind][]string {
	groups := make(map[FilterKind][]string)
	for _, s := range ss {
		groups[s.Kind] = append(groups[s.Kind], s.ID)
	}
	return groups
}

// OfKind returns the ids selected for kind in selection order
func (ss Selections) OfKind(kind FilterKind) []string {
	var ids []string
	for _, s := range ss {
		if s.Kind == kind {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// WithoutKind returns the selections whose kind differs from kind
func (ss Selections) WithoutKind(kind FilterKind) Selections {
	out := make(Selections, 0, len(ss))
	for _, s := range ss {
		if s.Kind != kind {
			out = append(out, s)
		}
	}
	return out
}

// OnlyKind returns the selections of kind
func (ss Selections) OnlyKind(kind FilterKind) Selections {
	out := make(Selections, 0, len(ss))
	for _, s := range ss {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
