package engine

import (
	"strings"

	"video_library_service/internal/library/domain"
	"video_library_service/pkg"
)

// MatchesSearch reports whether any searchable field of v contains query,
// case-insensitively. A blank query matches everything.
func MatchesSearch(v domain.AnnotatedVideo, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	contains := func(s string) bool {
		return s != "" && strings.Contains(strings.ToLower(s), q)
	}

	if contains(v.Title) || contains(v.Description) {
		return true
	}
	for _, c := range v.Categories {
		if contains(c.Name) {
			return true
		}
	}
	for _, c := range v.Curriculums {
		if contains(c.Name) {
			return true
		}
	}
	for _, p := range v.Performers {
		if contains(p.Name) {
			return true
		}
	}
	return false
}

// memberships returns the ids v carries for kind
func memberships(v domain.AnnotatedVideo, kind domain.FilterKind) []string {
	switch kind {
	case domain.KindCategory:
		ids := make([]string, 0, len(v.Categories))
		for _, c := range v.Categories {
			ids = append(ids, c.ID)
		}
		return ids
	case domain.KindCurriculum:
		ids := make([]string, 0, len(v.Curriculums))
		for _, c := range v.Curriculums {
			ids = append(ids, c.ID)
		}
		return ids
	case domain.KindPerformer:
		ids := make([]string, 0, len(v.Performers))
		for _, p := range v.Performers {
			ids = append(ids, p.ID)
		}
		return ids
	case domain.KindRecorded:
		if v.Recorded == "" {
			return nil
		}
		return []string{v.Recorded}
	case domain.KindViewBucket:
		return []string{BucketFor(v.ViewCount)}
	}
	return nil
}

// MatchesFilters evaluates sels against v. Every kind with at least one
// selection yields one boolean: in AND mode the video must carry every
// selected id of that kind, in OR mode at least one. The booleans are then
// combined with AND or OR following mode. An empty selection matches.
func MatchesFilters(v domain.AnnotatedVideo, sels domain.Selections, mode domain.Mode) bool {
	if len(sels) == 0 {
		return true
	}
	groups := sels.Group()

	contributed := false
	for _, kind := range domain.FilterKinds {
		ids, ok := groups[kind]
		if !ok {
			continue
		}
		contributed = true

		have := memberships(v, kind)
		var matched bool
		if mode == domain.ModeOr {
			matched = pkg.ContainsAny(have, ids)
		} else {
			matched = pkg.ContainsAll(have, ids)
		}

		if mode == domain.ModeOr && matched {
			return true
		}
		if mode != domain.ModeOr && !matched {
			return false
		}
	}
	if !contributed {
		return true
	}
	return mode != domain.ModeOr
}

// MatchesLevel reports whether v is visible under the level bound: no bound,
// no curriculums, or at least one curriculum ranked at or below maxOrder.
func MatchesLevel(v domain.AnnotatedVideo, maxOrder *int) bool {
	if maxOrder == nil || len(v.Curriculums) == 0 {
		return true
	}
	for _, c := range v.Curriculums {
		if c.DisplayOrder <= *maxOrder {
			return true
		}
	}
	return false
}

// ApplyLevel keeps the videos visible under maxOrder and strips the
// curriculums ranked above it from each kept copy
func ApplyLevel(videos []domain.AnnotatedVideo, maxOrder *int) []domain.AnnotatedVideo {
	out := make([]domain.AnnotatedVideo, 0, len(videos))
	for _, v := range videos {
		if !MatchesLevel(v, maxOrder) {
			continue
		}
		if maxOrder != nil && len(v.Curriculums) > 0 {
			kept := make([]domain.Curriculum, 0, len(v.Curriculums))
			for _, c := range v.Curriculums {
				if c.DisplayOrder <= *maxOrder {
					kept = append(kept, c)
				}
			}
			v = v.WithCurriculums(kept)
		}
		out = append(out, v)
	}
	return out
}
