package engine

import (
	"sort"

	"video_library_service/internal/library/domain"
)

// ExtractFacets derives the filter options present across videos. When
// maxOrder is set, curriculums ranked above it are never offered.
func ExtractFacets(videos []domain.AnnotatedVideo, maxOrder *int) domain.Facets {
	var (
		categories  = make([]domain.Category, 0)
		curriculums = make([]domain.Curriculum, 0)
		performers  = make([]domain.Performer, 0)
		recorded    = make([]string, 0)
		buckets     = make([]string, 0)

		seenCategory   = make(map[string]struct{})
		seenCurriculum = make(map[string]struct{})
		seenPerformer  = make(map[string]struct{})
		seenRecorded   = make(map[string]struct{})
		seenBucket     = make(map[string]struct{})
	)

	for _, v := range videos {
		for _, c := range v.Categories {
			if _, ok := seenCategory[c.ID]; ok {
				continue
			}
			seenCategory[c.ID] = struct{}{}
			categories = append(categories, c)
		}
		for _, c := range v.Curriculums {
			if maxOrder != nil && c.DisplayOrder > *maxOrder {
				continue
			}
			if _, ok := seenCurriculum[c.ID]; ok {
				continue
			}
			seenCurriculum[c.ID] = struct{}{}
			curriculums = append(curriculums, c)
		}
		for _, p := range v.Performers {
			if _, ok := seenPerformer[p.ID]; ok {
				continue
			}
			seenPerformer[p.ID] = struct{}{}
			performers = append(performers, p)
		}
		if v.Recorded != "" {
			if _, ok := seenRecorded[v.Recorded]; !ok {
				seenRecorded[v.Recorded] = struct{}{}
				recorded = append(recorded, v.Recorded)
			}
		}
		seenBucket[BucketFor(v.ViewCount)] = struct{}{}
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return lessByName(categories[i].Name, categories[j].Name, categories[i].ID, categories[j].ID)
	})
	sort.SliceStable(curriculums, func(i, j int) bool {
		if curriculums[i].DisplayOrder != curriculums[j].DisplayOrder {
			return curriculums[i].DisplayOrder < curriculums[j].DisplayOrder
		}
		return lessByName(curriculums[i].Name, curriculums[j].Name, curriculums[i].ID, curriculums[j].ID)
	})
	sort.SliceStable(performers, func(i, j int) bool {
		return lessByName(performers[i].Name, performers[j].Name, performers[i].ID, performers[j].ID)
	})

	// 依區間順序輸出，只列出實際出現的區間
	for _, token := range ViewBucketTokens() {
		if _, ok := seenBucket[token]; ok {
			buckets = append(buckets, token)
		}
	}

	return domain.Facets{
		Categories:  categories,
		Curriculums: curriculums,
		Performers:  performers,
		Recorded:    recorded,
		ViewBuckets: buckets,
	}
}

func lessByName(a, b, idA, idB string) bool {
	if c := collateStrings(a, b); c != 0 {
		return c < 0
	}
	return idA < idB
}
