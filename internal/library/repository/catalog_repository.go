package repository

import (
	"context"
	"errors"
	"time"

	"video_library_service/internal/library/domain"

	"gorm.io/gorm"
)

// CatalogRepository 讀取影片庫快照 (videos、分類、帶級、示範者與關聯表)
type CatalogRepository interface {
	AutoMigrate() error
	ListVideos(ctx context.Context) ([]domain.Video, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListCurriculums(ctx context.Context) ([]domain.Curriculum, error)
	ListPerformers(ctx context.Context) ([]domain.Performer, error)
	ListVideoCategories(ctx context.Context) ([]domain.VideoCategory, error)
	ListVideoCurriculums(ctx context.Context) ([]domain.VideoCurriculum, error)
	ListVideoPerformers(ctx context.Context) ([]domain.VideoPerformer, error)
	VideoExists(ctx context.Context, id string) (bool, error)
}

type videoRow struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title        string `gorm:"not null"`
	Description  string
	VideoURL     string `gorm:"column:video_url"`
	ThumbnailURL string `gorm:"column:thumbnail_url"`
	Duration     *int
	CreatedAt    time.Time
	Recorded     string
}

func (videoRow) TableName() string { return "videos" }

type categoryRow struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string `gorm:"not null;uniqueIndex"`
	Color       string
	Description string
}

func (categoryRow) TableName() string { return "categories" }

type curriculumRow struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name         string `gorm:"not null"`
	Color        string
	DisplayOrder int `gorm:"not null;index"`
	Description  string
}

func (curriculumRow) TableName() string { return "curriculums" }

type performerRow struct {
	ID   string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name string `gorm:"not null"`
}

func (performerRow) TableName() string { return "performers" }

type videoCategoryRow struct {
	VideoID    string `gorm:"primaryKey;type:uuid"`
	CategoryID string `gorm:"primaryKey;type:uuid"`
}

func (videoCategoryRow) TableName() string { return "video_categories" }

type videoCurriculumRow struct {
	VideoID      string `gorm:"primaryKey;type:uuid"`
	CurriculumID string `gorm:"primaryKey;type:uuid"`
}

func (videoCurriculumRow) TableName() string { return "video_curriculums" }

type videoPerformerRow struct {
	VideoID     string `gorm:"primaryKey;type:uuid"`
	PerformerID string `gorm:"primaryKey;type:uuid"`
}

func (videoPerformerRow) TableName() string { return "video_performers" }

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository create CatalogRepository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// AutoMigrate 建立或補齊 catalog 資料表，不會刪除欄位
func (r *catalogRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&videoRow{}, &categoryRow{}, &curriculumRow{}, &performerRow{},
		&videoCategoryRow{}, &videoCurriculumRow{}, &videoPerformerRow{},
	)
}

func (r *catalogRepository) ListVideos(ctx context.Context) ([]domain.Video, error) {
	var rows []videoRow
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Video, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Category(row))
	}
	return out, nil
}

func (r *catalogRepository) ListCurriculums(ctx context.Context) ([]domain.Curriculum, error) {
	var rows []curriculumRow
	if err := r.db.WithContext(ctx).Order("display_order").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Curriculum, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Curriculum(row))
	}
	return out, nil
}

func (r *catalogRepository) ListPerformers(ctx context.Context) ([]domain.Performer, error) {
	var rows []performerRow
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Performer, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Performer(row))
	}
	return out, nil
}

// join-select 結果的攤平列
type joinedCategory struct {
	VideoID     string
	ID          string
	Name        string
	Color       string
	Description string
}

type joinedCurriculum struct {
	VideoID      string
	ID           string
	Name         string
	Color        string
	DisplayOrder int
	Description  string
}

type joinedPerformer struct {
	VideoID string
	ID      string
	Name    string
}

func (r *catalogRepository) ListVideoCategories(ctx context.Context) ([]domain.VideoCategory, error) {
	var rows []joinedCategory
	err := r.db.WithContext(ctx).
		Table("video_categories vc").
		Select("vc.video_id, c.id, c.name, c.color, c.description").
		Joins("JOIN categories c ON c.id = vc.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.VideoCategory, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.VideoCategory{VideoID: row.VideoID, Category: domain.Category{ID: row.ID, Name: row.Name, Color: row.Color, Description: row.Description}})
	}
	return out, nil
}

func (r *catalogRepository) ListVideoCurriculums(ctx context.Context) ([]domain.VideoCurriculum, error) {
	var rows []joinedCurriculum
	err := r.db.WithContext(ctx).
		Table("video_curriculums vc").
		Select("vc.video_id, c.id, c.name, c.color, c.display_order, c.description").
		Joins("JOIN curriculums c ON c.id = vc.curriculum_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.VideoCurriculum, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.VideoCurriculum{VideoID: row.VideoID, Curriculum: domain.Curriculum{ID: row.ID, Name: row.Name, Color: row.Color, DisplayOrder: row.DisplayOrder, Description: row.Description}})
	}
	return out, nil
}

func (r *catalogRepository) ListVideoPerformers(ctx context.Context) ([]domain.VideoPerformer, error) {
	var rows []joinedPerformer
	err := r.db.WithContext(ctx).
		Table("video_performers vp").
		Select("vp.video_id, p.id, p.name").
		Joins("JOIN performers p ON p.id = vp.performer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.VideoPerformer, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.VideoPerformer{VideoID: row.VideoID, Performer: domain.Performer{ID: row.ID, Name: row.Name}})
	}
	return out, nil
}

func (r *catalogRepository) VideoExists(ctx context.Context, id string) (bool, error) {
	var row videoRow
	err := r.db.WithContext(ctx).Select("id").Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (row videoRow) toDomain() domain.Video {
	return domain.Video{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		MediaKey:     row.VideoURL,
		ThumbnailKey: row.ThumbnailURL,
		Duration:     row.Duration,
		CreatedAt:    row.CreatedAt,
		Recorded:     row.Recorded,
	}
}
