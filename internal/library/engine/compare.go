package engine

import (
	"sort"
	"strings"
	"sync"

	"video_library_service/internal/library/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collate.Collator keeps internal buffers and is not safe for concurrent use
var collatorPool = sync.Pool{
	New: func() any {
		return collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
	},
}

// collateStrings compares two strings locale and number aware ("Kata 2" < "Kata 10")
func collateStrings(a, b string) int {
	c := collatorPool.Get().(*collate.Collator)
	defer collatorPool.Put(c)
	return c.CompareString(a, b)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// cmpMissingLast orders present values before missing ones
func cmpMissingLast(okA, okB bool) (int, bool) {
	switch {
	case okA && okB:
		return 0, false
	case okA:
		return -1, true
	case okB:
		return 1, true
	}
	return 0, true
}

// primaryCategory returns the first category name in collation order
func primaryCategory(v domain.AnnotatedVideo) (string, bool) {
	if len(v.Categories) == 0 {
		return "", false
	}
	name := v.Categories[0].Name
	for _, c := range v.Categories[1:] {
		if collateStrings(c.Name, name) < 0 {
			name = c.Name
		}
	}
	return name, true
}

func compareKey(a, b domain.AnnotatedVideo, key domain.SortKey) int {
	switch key {
	case domain.SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)

	case domain.SortLastViewed:
		// 沒有觀看紀錄視為最早
		switch {
		case a.LastViewedAt == nil && b.LastViewedAt == nil:
			return 0
		case a.LastViewedAt == nil:
			return -1
		case b.LastViewedAt == nil:
			return 1
		}
		return a.LastViewedAt.Compare(*b.LastViewedAt)

	case domain.SortViews:
		return cmpInt(a.ViewCount, b.ViewCount)

	case domain.SortCurriculum:
		oa, okA := a.MinCurriculumOrder()
		ob, okB := b.MinCurriculumOrder()
		if c, done := cmpMissingLast(okA, okB); done {
			return c
		}
		return cmpInt(oa, ob)

	case domain.SortCategory:
		na, okA := primaryCategory(a)
		nb, okB := primaryCategory(b)
		if c, done := cmpMissingLast(okA, okB); done {
			return c
		}
		return collateStrings(na, nb)

	case domain.SortRecorded:
		ra, rb := strings.TrimSpace(a.Recorded), strings.TrimSpace(b.Recorded)
		if c, done := cmpMissingLast(ra != "", rb != ""); done {
			return c
		}
		return collateStrings(ra, rb)
	}

	return collateStrings(a.Title, b.Title)
}

// Compare orders a and b by key, breaking ties by title then id so the
// order is total. Desc inverts the final sign.
func Compare(a, b domain.AnnotatedVideo, key domain.SortKey, dir domain.SortDirection) int {
	c := compareKey(a, b, key)
	if c == 0 && key != domain.SortTitle {
		c = collateStrings(a.Title, b.Title)
	}
	if c == 0 {
		c = strings.Compare(a.ID, b.ID)
	}
	return c * dir.Sign()
}

// SortVideos returns a sorted copy of videos
func SortVideos(videos []domain.AnnotatedVideo, key domain.SortKey, dir domain.SortDirection) []domain.AnnotatedVideo {
	out := make([]domain.AnnotatedVideo, len(videos))
	copy(out, videos)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j], key, dir) < 0
	})
	return out
}
