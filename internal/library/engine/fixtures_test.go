package engine

import (
	"fmt"
	"time"

	"video_library_service/internal/library/domain"
)

var (
	catKata   = domain.Category{ID: "cat-kata", Name: "Kata", Color: "#ff0000"}
	catKumite = domain.Category{ID: "cat-kumite", Name: "Kumite", Color: "#0000ff"}
	catKihon  = domain.Category{ID: "cat-kihon", Name: "Kihon", Color: "#00ff00"}

	beltWhite  = domain.Curriculum{ID: "belt-white", Name: "White Belt", DisplayOrder: 1}
	beltYellow = domain.Curriculum{ID: "belt-yellow", Name: "Yellow Belt", DisplayOrder: 2}
	beltGreen  = domain.Curriculum{ID: "belt-green", Name: "Green Belt", DisplayOrder: 3}

	perfSensei = domain.Performer{ID: "perf-sensei", Name: "Sensei Tanaka"}
	perfAiko   = domain.Performer{ID: "perf-aiko", Name: "Aiko"}

	baseTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
)

type videoOpt func(*domain.AnnotatedVideo)

func withCategories(cs ...domain.Category) videoOpt {
	return func(v *domain.AnnotatedVideo) { v.Categories = cs }
}

func withCurriculums(cs ...domain.Curriculum) videoOpt {
	return func(v *domain.AnnotatedVideo) { v.Curriculums = cs }
}

func withPerformers(ps ...domain.Performer) videoOpt {
	return func(v *domain.AnnotatedVideo) { v.Performers = ps }
}

func withRecorded(r string) videoOpt {
	return func(v *domain.AnnotatedVideo) { v.Recorded = r }
}

func withViews(n int) videoOpt {
	return func(v *domain.AnnotatedVideo) { v.ViewCount = n }
}

func withLastViewed(t time.Time) videoOpt {
	return func(v *domain.AnnotatedVideo) { v.LastViewedAt = &t }
}

func withDescription(d string) videoOpt {
	return func(v *domain.AnnotatedVideo) { v.Description = d }
}

func withFavorite() videoOpt {
	return func(v *domain.AnnotatedVideo) { v.Favorite = true }
}

func withCreatedAt(t time.Time) videoOpt {
	return func(v *domain.AnnotatedVideo) { v.CreatedAt = t }
}

func newVideo(id, title string, opts ...videoOpt) domain.AnnotatedVideo {
	v := domain.AnnotatedVideo{
		Video: domain.Video{
			ID:        id,
			Title:     title,
			CreatedAt: baseTime,
		},
	}
	for _, o := range opts {
		o(&v)
	}
	return v
}

// threeVideos 1: Kata + white, 2: Kumite + green, 3: Kata & Kumite + white
func threeVideos() []domain.AnnotatedVideo {
	return []domain.AnnotatedVideo{
		newVideo("v1", "Heian Shodan", withCategories(catKata), withCurriculums(beltWhite)),
		newVideo("v2", "Ippon Kumite", withCategories(catKumite), withCurriculums(beltGreen)),
		newVideo("v3", "Bunkai Drills", withCategories(catKata, catKumite), withCurriculums(beltWhite)),
	}
}

// mixedVideos a catalog touching every facet and sort key
func mixedVideos() []domain.AnnotatedVideo {
	return []domain.AnnotatedVideo{
		newVideo("m1", "Kata 10", withCategories(catKata), withCurriculums(beltYellow),
			withPerformers(perfSensei), withRecorded("2023 Spring"), withViews(12),
			withLastViewed(baseTime.Add(time.Hour)), withCreatedAt(baseTime.Add(-time.Hour))),
		newVideo("m2", "Kata 2", withCategories(catKata, catKihon), withCurriculums(beltWhite, beltGreen),
			withPerformers(perfAiko), withRecorded("2023 Autumn"), withViews(0)),
		newVideo("m3", "kumite basics", withCategories(catKumite), withPerformers(perfSensei, perfAiko),
			withViews(150), withLastViewed(baseTime), withDescription("O'Sensei's favourite drill")),
		newVideo("m4", "Stretching", withViews(7), withRecorded("2023 Spring"), withFavorite(),
			withCreatedAt(baseTime.Add(2*time.Hour))),
		newVideo("m5", "Kata 2", withCategories(catKihon), withCurriculums(beltGreen), withViews(55), withFavorite()),
	}
}

// numberedVideos n videos titled "Video 01".."Video n"
func numberedVideos(n int) []domain.AnnotatedVideo {
	out := make([]domain.AnnotatedVideo, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, newVideo(fmt.Sprintf("n%02d", i), fmt.Sprintf("Video %02d", i),
			withCreatedAt(baseTime.Add(time.Duration(i)*time.Minute))))
	}
	return out
}

func ids(videos []domain.AnnotatedVideo) []string {
	out := make([]string, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.ID)
	}
	return out
}

func intPtr(n int) *int { return &n }
