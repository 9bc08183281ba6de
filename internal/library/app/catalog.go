package app

import (
	"context"
	"time"

	"video_library_service/internal/library/domain"
	"video_library_service/internal/library/repository"
	"video_library_service/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Catalog 所有觀看者共用的影片快照，只含關聯，不含個人資料與觀看次數
type Catalog struct {
	Videos   []domain.AnnotatedVideo
	LoadedAt time.Time
}

// catalogSource 一次 fan-out 抓取所有 catalog 資料
type catalogSource struct {
	repo   repository.CatalogRepository
	signer repository.MediaSigner
	now    func() time.Time
}

// taxonomy 標籤主檔，用來統一名稱與顏色；讀取失敗時為 nil
type taxonomy struct {
	categories  map[string]domain.Category
	curriculums map[string]domain.Curriculum
	performers  map[string]domain.Performer
}

func indexBy[T any](items []T, id func(T) string) map[string]T {
	if items == nil {
		return nil
	}
	out := make(map[string]T, len(items))
	for _, it := range items {
		out[id(it)] = it
	}
	return out
}

// canonical returns the master record of v when the master list is loaded
func canonical[T any](master map[string]T, id string, v T) T {
	if c, ok := master[id]; ok {
		return c
	}
	return v
}

// fetch runs the video and association queries concurrently and joins them
// once all of them resolved. Any failure there fails the whole load. The
// taxonomy master lists are read alongside but only refine names and colors,
// so their failures are logged and skipped.
func (s *catalogSource) fetch(ctx context.Context) (Catalog, error) {
	var (
		videos      []domain.Video
		categories  []domain.VideoCategory
		curriculums []domain.VideoCurriculum
		performers  []domain.VideoPerformer
		tax         taxonomy
	)

	var tg errgroup.Group
	tg.Go(func() error {
		all, err := s.repo.ListCategories(ctx)
		if err != nil {
			logger.Log.Warn("list categories failed, using joined names", zap.Error(err))
			return nil
		}
		tax.categories = indexBy(all, func(c domain.Category) string { return c.ID })
		return nil
	})
	tg.Go(func() error {
		all, err := s.repo.ListCurriculums(ctx)
		if err != nil {
			logger.Log.Warn("list curriculums failed, using joined names", zap.Error(err))
			return nil
		}
		tax.curriculums = indexBy(all, func(c domain.Curriculum) string { return c.ID })
		return nil
	})
	tg.Go(func() error {
		all, err := s.repo.ListPerformers(ctx)
		if err != nil {
			logger.Log.Warn("list performers failed, using joined names", zap.Error(err))
			return nil
		}
		tax.performers = indexBy(all, func(p domain.Performer) string { return p.ID })
		return nil
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { videos, err = s.repo.ListVideos(gctx); return })
	g.Go(func() (err error) { categories, err = s.repo.ListVideoCategories(gctx); return })
	g.Go(func() (err error) { curriculums, err = s.repo.ListVideoCurriculums(gctx); return })
	g.Go(func() (err error) { performers, err = s.repo.ListVideoPerformers(gctx); return })
	err := g.Wait()
	_ = tg.Wait()
	if err != nil {
		return Catalog{}, err
	}

	logger.Log.Debug("catalog fetched",
		zap.Int("videos", len(videos)),
		zap.Int("categories", len(tax.categories)),
		zap.Int("curriculums", len(tax.curriculums)),
		zap.Int("performers", len(tax.performers)),
	)

	return Catalog{
		Videos:   s.join(ctx, videos, categories, curriculums, performers, tax),
		LoadedAt: s.now(),
	}, nil
}

// join attaches the association rows to their videos and resolves media URLs
func (s *catalogSource) join(
	ctx context.Context,
	videos []domain.Video,
	categories []domain.VideoCategory,
	curriculums []domain.VideoCurriculum,
	performers []domain.VideoPerformer,
	tax taxonomy,
) []domain.AnnotatedVideo {
	byCategory := make(map[string][]domain.Category)
	for _, row := range categories {
		c := canonical(tax.categories, row.Category.ID, row.Category)
		byCategory[row.VideoID] = append(byCategory[row.VideoID], c)
	}
	byCurriculum := make(map[string][]domain.Curriculum)
	for _, row := range curriculums {
		c := canonical(tax.curriculums, row.Curriculum.ID, row.Curriculum)
		byCurriculum[row.VideoID] = append(byCurriculum[row.VideoID], c)
	}
	byPerformer := make(map[string][]domain.Performer)
	for _, row := range performers {
		p := canonical(tax.performers, row.Performer.ID, row.Performer)
		byPerformer[row.VideoID] = append(byPerformer[row.VideoID], p)
	}

	out := make([]domain.AnnotatedVideo, 0, len(videos))
	for _, v := range videos {
		out = append(out, domain.AnnotatedVideo{
			Video:        v,
			Categories:   nonNil(byCategory[v.ID]),
			Curriculums:  nonNil(byCurriculum[v.ID]),
			Performers:   nonNil(byPerformer[v.ID]),
			MediaURL:     s.sign(ctx, v.ID, v.MediaKey),
			ThumbnailURL: s.sign(ctx, v.ID, v.ThumbnailKey),
		})
	}
	return out
}

// sign 失敗時回傳空字串，不影響整份快照
func (s *catalogSource) sign(ctx context.Context, videoID, key string) string {
	if s.signer == nil || key == "" {
		return ""
	}
	url, err := s.signer.Sign(ctx, key)
	if err != nil {
		logger.Log.Warn("presign media failed", zap.String("video_id", videoID), zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// annotate is the single annotation step: it produces the viewer's immutable
// copy of the catalog carrying view counts and favorites
func annotate(cat Catalog, favorites map[string]struct{}, stats map[string]domain.ViewStat) []domain.AnnotatedVideo {
	out := make([]domain.AnnotatedVideo, len(cat.Videos))
	for i, v := range cat.Videos {
		if s, ok := stats[v.ID]; ok {
			v.ViewCount = s.Count
			v.LastViewedAt = s.LastViewedAt
		}
		_, v.Favorite = favorites[v.ID]
		out[i] = v
	}
	return out
}
