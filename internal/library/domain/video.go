package domain

import "time"

// Category 影片分類
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// Curriculum 帶級 (belt/level)，DisplayOrder 越小等級越前面
type Curriculum struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	DisplayOrder int    `json:"display_order"`
	Description  string `json:"description,omitempty"`
}

// Performer 示範者
type Performer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Video 影片原始資料，不含關聯
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	MediaKey     string    `json:"-"`
	ThumbnailKey string    `json:"-"`
	Duration     *int      `json:"duration,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Recorded     string    `json:"recorded,omitempty"`
}

// VideoCategory join row video_categories
type VideoCategory struct {
	VideoID  string
	Category Category
}

// VideoCurriculum join row video_curriculums
type VideoCurriculum struct {
	VideoID    string
	Curriculum Curriculum
}

// VideoPerformer join row video_performers
type VideoPerformer struct {
	VideoID   string
	Performer Performer
}

// AnnotatedVideo is the immutable view of a video after the annotation step.
// Slices are owned by the value and must not be mutated by callers.
type AnnotatedVideo struct {
	Video
	Categories   []Category   `json:"categories"`
	Curriculums  []Curriculum `json:"curriculums"`
	Performers   []Performer  `json:"performers"`
	ViewCount    int          `json:"view_count"`
	LastViewedAt *time.Time   `json:"last_viewed_at,omitempty"`
	Favorite     bool         `json:"favorite"`
	MediaURL     string       `json:"media_url,omitempty"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty"`
}

// MinCurriculumOrder returns the lowest display order among the video's
// curriculums, ok is false when the video has none.
func (v AnnotatedVideo) MinCurriculumOrder() (order int, ok bool) {
	for i, c := range v.Curriculums {
		if i == 0 || c.DisplayOrder < order {
			order = c.DisplayOrder
		}
		ok = true
	}
	return order, ok
}

// WithCurriculums returns a copy of v carrying cs instead of its curriculums
func (v AnnotatedVideo) WithCurriculums(cs []Curriculum) AnnotatedVideo {
	v.Curriculums = cs
	return v
}

// ViewStat 單一影片的觀看統計 (batched view-count lookup 的結果)
type ViewStat struct {
	VideoID      string
	Count        int
	LastViewedAt *time.Time
}
