package repository

import (
	"context"
	"time"

	"video_library_service/internal/library/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ActivityRepository 使用者收藏與觀看紀錄
type ActivityRepository interface {
	Migrate(ctx context.Context) error
	ListFavorites(ctx context.Context, viewerID string) ([]string, error)
	AddFavorite(ctx context.Context, viewerID, videoID string) error
	RemoveFavorite(ctx context.Context, viewerID, videoID string) error
	// CountViews batched view-count lookup keyed by the video id list.
	// LastViewedAt is the viewer's own last view.
	CountViews(ctx context.Context, videoIDs []string, viewerID string) ([]domain.ViewStat, error)
	RecordView(ctx context.Context, viewerID, videoID string, at time.Time) error
}

type activityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository create a ActivityRepository
func NewActivityRepository(db *pgxpool.Pool) ActivityRepository {
	return &activityRepository{db: db}
}

const activitySchema = `
CREATE TABLE IF NOT EXISTS user_favorites (
	user_id    TEXT        NOT NULL,
	video_id   TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, video_id)
);
CREATE TABLE IF NOT EXISTS video_views (
	id        BIGSERIAL   PRIMARY KEY,
	video_id  TEXT        NOT NULL,
	user_id   TEXT        NOT NULL DEFAULT '',
	viewed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_video_views_video_id ON video_views (video_id);
`

func (r *activityRepository) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, activitySchema)
	return err
}

func (r *activityRepository) ListFavorites(ctx context.Context, viewerID string) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT video_id FROM user_favorites WHERE user_id = $1 ORDER BY created_at DESC", viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *activityRepository) AddFavorite(ctx context.Context, viewerID, videoID string) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO user_favorites(user_id, video_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		viewerID, videoID)
	return err
}

func (r *activityRepository) RemoveFavorite(ctx context.Context, viewerID, videoID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM user_favorites WHERE user_id = $1 AND video_id = $2", viewerID, videoID)
	return err
}

func (r *activityRepository) CountViews(ctx context.Context, videoIDs []string, viewerID string) ([]domain.ViewStat, error) {
	if len(videoIDs) == 0 {
		return []domain.ViewStat{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT video_id, COUNT(*), MAX(viewed_at) FILTER (WHERE user_id = $2 AND $2 <> '')
		FROM video_views
		WHERE video_id = ANY($1)
		GROUP BY video_id`, videoIDs, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]domain.ViewStat, 0, len(videoIDs))
	for rows.Next() {
		var (
			s    domain.ViewStat
			last *time.Time
		)
		if err := rows.Scan(&s.VideoID, &s.Count, &last); err != nil {
			return nil, err
		}
		s.LastViewedAt = last
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *activityRepository) RecordView(ctx context.Context, viewerID, videoID string, at time.Time) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO video_views(video_id, user_id, viewed_at) VALUES ($1, $2, $3)",
		videoID, viewerID, at)
	return err
}
