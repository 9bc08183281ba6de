package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"video_library_service/internal/library/domain"
	"video_library_service/internal/library/engine"
	"video_library_service/internal/library/repository"
	"video_library_service/internal/library/resilience"
	errprocess "video_library_service/pkg/err"
	"video_library_service/pkg/logger"
	"video_library_service/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CatalogKey fetcher key of the shared catalog snapshot
const CatalogKey = "catalog"

// Snapshot 單一觀看者的已標註影片清單
type Snapshot struct {
	Videos   []domain.AnnotatedVideo
	Status   domain.LoadStatus
	LoadedAt time.Time
}

// StatusReport 載入與斷路器狀態
type StatusReport struct {
	Status          domain.LoadStatus `json:"status"`
	Breaker         resilience.State  `json:"breaker"`
	Failures        int               `json:"failures"`
	LoadedAt        time.Time         `json:"loaded_at"`
	CatalogSize     int               `json:"catalog_size"`
	LastLoadSuccess bool              `json:"last_load_success"`
}

// LibraryUseCase 影片庫對外提供的應用服務
type LibraryUseCase interface {
	Load(ctx context.Context, viewer domain.Viewer) Snapshot
	Query(ctx context.Context, viewer domain.Viewer, st domain.QueryState) domain.QueryResult
	Facets(ctx context.Context, viewer domain.Viewer) domain.Facets
	BaseState(ctx context.Context, viewer domain.Viewer, prefix string) domain.QueryState
	Status() StatusReport
	Refresh()

	AddFavorite(ctx context.Context, viewer domain.Viewer, videoID string) error
	RemoveFavorite(ctx context.Context, viewer domain.Viewer, videoID string) error
	RecordView(ctx context.Context, viewer domain.Viewer, videoID string) error

	GetPreferences(ctx context.Context, viewer domain.Viewer, prefix string) (domain.Preferences, error)
	SavePreferences(ctx context.Context, viewer domain.Viewer, p domain.Preferences) (domain.Preferences, error)
}

// Options 可調整的行為
type Options struct {
	// FetchTimeout bounds one catalog fan-out, zero means no bound
	FetchTimeout time.Duration
	Now          func() time.Time
}

type libraryUseCase struct {
	source    *catalogSource
	fetcher   *resilience.Fetcher[Catalog]
	catalog   repository.CatalogRepository
	activity  repository.ActivityRepository
	counter   ViewCounter
	prefs     repository.PreferencesRepository
	publisher repository.EventPublisher
	opts      Options

	mu       sync.RWMutex
	status   domain.LoadStatus
	loadedAt time.Time
	size     int
	lastOK   bool
}

// NewLibraryUseCase 建立 LibraryUseCase
func NewLibraryUseCase(
	catalog repository.CatalogRepository,
	activity repository.ActivityRepository,
	counter ViewCounter,
	prefs repository.PreferencesRepository,
	signer repository.MediaSigner,
	publisher repository.EventPublisher,
	fetcher *resilience.Fetcher[Catalog],
	opts Options,
) LibraryUseCase {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &libraryUseCase{
		source:    &catalogSource{repo: catalog, signer: signer, now: opts.Now},
		fetcher:   fetcher,
		catalog:   catalog,
		activity:  activity,
		counter:   counter,
		prefs:     prefs,
		publisher: publisher,
		opts:      opts,
		status:    domain.StatusIdle,
	}
}

func (u *libraryUseCase) setStatus(s domain.LoadStatus) {
	u.mu.Lock()
	u.status = s
	u.mu.Unlock()
}

// Load runs one load cycle: idle -> loading -> ready | degraded. The shared
// catalog goes through the resilient fetcher, then favorites and view counts
// are fetched concurrently and joined in a single annotation step.
func (u *libraryUseCase) Load(ctx context.Context, viewer domain.Viewer) Snapshot {
	u.setStatus(domain.StatusLoading)

	res := u.fetcher.Fetch(ctx, CatalogKey, func(ctx context.Context) (Catalog, error) {
		if u.opts.FetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, u.opts.FetchTimeout)
			defer cancel()
		}
		return u.source.fetch(ctx)
	})
	cat := res.Data

	ids := make([]string, 0, len(cat.Videos))
	for _, v := range cat.Videos {
		ids = append(ids, v.ID)
	}

	var (
		favorites   = map[string]struct{}{}
		stats       map[string]domain.ViewStat
		favoriteErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	if !viewer.Anonymous() {
		g.Go(func() error {
			favs, err := u.activity.ListFavorites(gctx, viewer.ID)
			if err != nil {
				favoriteErr = err
				return nil
			}
			for _, id := range favs {
				favorites[id] = struct{}{}
			}
			return nil
		})
	}
	g.Go(func() error {
		stats = u.counter.Lookup(gctx, ids, viewer.ID)
		return nil
	})
	_ = g.Wait()

	status := domain.StatusReady
	if res.Degraded {
		status = domain.StatusDegraded
	}
	if favoriteErr != nil {
		logger.Log.Warn("load favorites failed", zap.String("viewer", viewer.ID), zap.Error(favoriteErr))
		status = domain.StatusDegraded
	}

	u.mu.Lock()
	u.status = status
	u.loadedAt = cat.LoadedAt
	u.size = len(cat.Videos)
	u.lastOK = !res.Degraded
	u.mu.Unlock()

	metrics.RecordLoad(string(status))
	metrics.SetBreakerOpen(CatalogKey, u.fetcher.Breaker().State() == resilience.StateOpen)

	return Snapshot{
		Videos:   annotate(cat, favorites, stats),
		Status:   status,
		LoadedAt: cat.LoadedAt,
	}
}

// Query loads the viewer's snapshot and runs the pipeline. The level bound
// of the viewer wins over any bound in st.
func (u *libraryUseCase) Query(ctx context.Context, viewer domain.Viewer, st domain.QueryState) domain.QueryResult {
	defer metrics.ObserveQuery(time.Now())

	snap := u.Load(ctx, viewer)
	st.MaxOrder = viewer.LevelBound()
	if viewer.Anonymous() {
		st.FavoritesOnly = false
	}

	out := engine.Run(snap.Videos, st)
	return domain.QueryResult{
		Items:    out.Items,
		Facets:   out.Facets,
		Page:     out.Page,
		State:    out.State,
		Status:   snap.Status,
		Empty:    len(out.Items) == 0,
		LoadedAt: snap.LoadedAt,
	}
}

// Facets returns the filter options visible to the viewer
func (u *libraryUseCase) Facets(ctx context.Context, viewer domain.Viewer) domain.Facets {
	snap := u.Load(ctx, viewer)
	bound := viewer.LevelBound()
	return engine.ExtractFacets(engine.ApplyLevel(snap.Videos, bound), bound)
}

// BaseState returns the default query state merged with the viewer's saved
// preferences under prefix. Values equal to it are omitted from URLs.
func (u *libraryUseCase) BaseState(ctx context.Context, viewer domain.Viewer, prefix string) domain.QueryState {
	st := domain.DefaultQueryState()
	if viewer.Anonymous() || domain.ValidatePrefix(prefix) != nil {
		return st
	}
	p, err := u.GetPreferences(ctx, viewer, prefix)
	if err != nil {
		return st
	}
	st.ItemsPerPage = p.ItemsPerPage
	st.SortKey = p.SortKey
	st.SortDirection = p.SortDirection
	return st
}

func (u *libraryUseCase) Status() StatusReport {
	b := u.fetcher.Breaker()
	u.mu.RLock()
	defer u.mu.RUnlock()
	return StatusReport{
		Status:          u.status,
		Breaker:         b.State(),
		Failures:        b.Failures(),
		LoadedAt:        u.loadedAt,
		CatalogSize:     u.size,
		LastLoadSuccess: u.lastOK,
	}
}

// Refresh drops the fresh catalog so the next load hits the database. The
// fallback copy is kept.
func (u *libraryUseCase) Refresh() {
	u.fetcher.Invalidate(CatalogKey)
	logger.Log.Info("catalog cache invalidated")
}

// checkVideo 確認影片存在，非 uuid 直接視為不存在
func (u *libraryUseCase) checkVideo(ctx context.Context, videoID string) error {
	if _, err := uuid.Parse(videoID); err != nil {
		return domain.ErrVideoNotFound
	}
	ok, err := u.catalog.VideoExists(ctx, videoID)
	if err != nil {
		return errprocess.Wrap(fmt.Sprintf("videoID[%s] 查詢影片失敗", videoID), err)
	}
	if !ok {
		return domain.ErrVideoNotFound
	}
	return nil
}

func (u *libraryUseCase) AddFavorite(ctx context.Context, viewer domain.Viewer, videoID string) error {
	if viewer.Anonymous() {
		return domain.ErrAnonymousViewer
	}
	if err := u.checkVideo(ctx, videoID); err != nil {
		return err
	}
	if err := u.activity.AddFavorite(ctx, viewer.ID, videoID); err != nil {
		return errprocess.Wrap(fmt.Sprintf("viewer_video[%s_%s] 新增收藏失敗", viewer.ID, videoID), err)
	}
	return nil
}

func (u *libraryUseCase) RemoveFavorite(ctx context.Context, viewer domain.Viewer, videoID string) error {
	if viewer.Anonymous() {
		return domain.ErrAnonymousViewer
	}
	if err := u.activity.RemoveFavorite(ctx, viewer.ID, videoID); err != nil {
		return errprocess.Wrap(fmt.Sprintf("viewer_video[%s_%s] 移除收藏失敗", viewer.ID, videoID), err)
	}
	return nil
}

// RecordView stores a view, anonymous views are counted without a viewer.
// Publishing the event is best effort.
func (u *libraryUseCase) RecordView(ctx context.Context, viewer domain.Viewer, videoID string) error {
	if err := u.checkVideo(ctx, videoID); err != nil {
		return err
	}

	at := u.opts.Now().UTC()
	if err := u.counter.Record(ctx, viewer.ID, videoID, at); err != nil {
		return errprocess.Wrap(fmt.Sprintf("videoID[%s] 記錄觀看失敗", videoID), err)
	}
	metrics.ViewsRecordedTotal.Inc()

	if u.publisher != nil {
		event := repository.VideoViewedEvent{VideoID: videoID, ViewerID: viewer.ID, ViewedAt: at}
		if err := u.publisher.PublishViewed(ctx, event); err != nil {
			logger.Log.Warn("publish video viewed failed", zap.String("video_id", videoID), zap.Error(err))
		}
	}
	return nil
}

// GetPreferences returns the saved preferences or the defaults when nothing
// was saved yet
func (u *libraryUseCase) GetPreferences(ctx context.Context, viewer domain.Viewer, prefix string) (domain.Preferences, error) {
	if err := domain.ValidatePrefix(prefix); err != nil {
		return domain.Preferences{}, err
	}
	if viewer.Anonymous() {
		return domain.DefaultPreferences(prefix, ""), nil
	}

	p, err := u.prefs.Find(ctx, prefix, viewer.ID)
	if errors.Is(err, repository.ErrPreferencesNotFound) {
		return domain.DefaultPreferences(prefix, viewer.ID), nil
	}
	if err != nil {
		return domain.Preferences{}, errprocess.Wrap(fmt.Sprintf("prefix_viewer[%s_%s] 讀取偏好失敗", prefix, viewer.ID), err)
	}
	return p.Normalize(), nil
}

// SavePreferences normalizes and stores p for the viewer
func (u *libraryUseCase) SavePreferences(ctx context.Context, viewer domain.Viewer, p domain.Preferences) (domain.Preferences, error) {
	if err := domain.ValidatePrefix(p.Prefix); err != nil {
		return domain.Preferences{}, err
	}
	if viewer.Anonymous() {
		return domain.Preferences{}, domain.ErrAnonymousViewer
	}

	p.ViewerID = viewer.ID
	p = p.Normalize()
	if err := u.prefs.Upsert(ctx, p); err != nil {
		return domain.Preferences{}, errprocess.Wrap(fmt.Sprintf("prefix_viewer[%s_%s] 儲存偏好失敗", p.Prefix, viewer.ID), err)
	}
	return p, nil
}
