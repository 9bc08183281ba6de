package app

import (
	"context"
	"errors"
	"time"

	"video_library_service/internal/library/domain"
	"video_library_service/internal/library/repository"
	"video_library_service/pkg/logger"
	"video_library_service/pkg/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const viewCountBreaker = "view-counts"

// ViewCounter batched view-count lookup keyed by the video id list
type ViewCounter interface {
	// Lookup never fails: when the source is unavailable every count is zero
	Lookup(ctx context.Context, videoIDs []string, viewerID string) map[string]domain.ViewStat
	Record(ctx context.Context, viewerID, videoID string, at time.Time) error
}

type viewCounter struct {
	activity repository.ActivityRepository
	cache    repository.ViewCountCache
	ttl      time.Duration
	cb       *gobreaker.CircuitBreaker[map[string]domain.ViewStat]
}

// NewViewCounter create ViewCounter. Counts are read from the redis cache
// first, postgres fills the misses. A viewer's own last view always comes
// from postgres.
func NewViewCounter(activity repository.ActivityRepository, cache repository.ViewCountCache, ttl time.Duration, threshold uint32, cooldown time.Duration) ViewCounter {
	settings := gobreaker.Settings{
		Name:    viewCountBreaker,
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// 呼叫端取消不算失敗
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warn("view count breaker state changed",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
			metrics.SetBreakerOpen(name, to == gobreaker.StateOpen)
		},
	}
	return &viewCounter{
		activity: activity,
		cache:    cache,
		ttl:      ttl,
		cb:       gobreaker.NewCircuitBreaker[map[string]domain.ViewStat](settings),
	}
}

func (c *viewCounter) Lookup(ctx context.Context, videoIDs []string, viewerID string) map[string]domain.ViewStat {
	if len(videoIDs) == 0 {
		return map[string]domain.ViewStat{}
	}

	stats, err := c.cb.Execute(func() (map[string]domain.ViewStat, error) {
		return c.lookup(ctx, videoIDs, viewerID)
	})
	if err != nil {
		logger.Log.Warn("view count lookup failed, counts degrade to zero",
			zap.Int("videos", len(videoIDs)), zap.Error(err))
		return map[string]domain.ViewStat{}
	}
	return stats
}

func (c *viewCounter) lookup(ctx context.Context, videoIDs []string, viewerID string) (map[string]domain.ViewStat, error) {
	stats := make(map[string]domain.ViewStat, len(videoIDs))

	// 有登入者時需要個人最後觀看時間，直接查 postgres
	if viewerID != "" {
		rows, err := c.activity.CountViews(ctx, videoIDs, viewerID)
		if err != nil {
			return nil, err
		}
		c.store(ctx, videoIDs, rows, stats)
		return stats, nil
	}

	cached, missing, err := c.cache.GetCounts(ctx, videoIDs)
	if err != nil {
		logger.Log.Warn("view count cache read failed", zap.Error(err))
		missing = videoIDs
	}
	for id, n := range cached {
		stats[id] = domain.ViewStat{VideoID: id, Count: n}
	}
	if len(missing) == 0 {
		return stats, nil
	}

	rows, err := c.activity.CountViews(ctx, missing, "")
	if err != nil {
		return nil, err
	}
	c.store(ctx, missing, rows, stats)
	return stats, nil
}

// store fills stats from rows and writes the counts of ids back to the
// cache, ids without rows are cached as zero
func (c *viewCounter) store(ctx context.Context, ids []string, rows []domain.ViewStat, stats map[string]domain.ViewStat) {
	counts := make(map[string]int, len(ids))
	for _, id := range ids {
		counts[id] = 0
	}
	for _, r := range rows {
		stats[r.VideoID] = r
		counts[r.VideoID] = r.Count
	}
	if err := c.cache.SetCounts(ctx, counts, c.ttl); err != nil {
		logger.Log.Warn("view count cache write failed", zap.Error(err))
	}
}

// Record stores the view in postgres and bumps the cached count
func (c *viewCounter) Record(ctx context.Context, viewerID, videoID string, at time.Time) error {
	if err := c.activity.RecordView(ctx, viewerID, videoID, at); err != nil {
		return err
	}
	if err := c.cache.Incr(ctx, videoID); err != nil {
		logger.Log.Warn("view count cache incr failed", zap.String("video_id", videoID), zap.Error(err))
	}
	return nil
}
