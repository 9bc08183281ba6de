package app

import (
	"context"
	"sync"
	"time"

	"video_library_service/internal/library/domain"
	"video_library_service/internal/library/repository"
	"video_library_service/internal/library/resilience"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/mock"
)

// MockCatalogRepo 是 CatalogRepository 的 Mock
type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) AutoMigrate() error {
	return m.Called().Error(0)
}

func (m *MockCatalogRepo) ListVideos(ctx context.Context) ([]domain.Video, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]domain.Video)
	return v, args.Error(1)
}

func (m *MockCatalogRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]domain.Category)
	return v, args.Error(1)
}

func (m *MockCatalogRepo) ListCurriculums(ctx context.Context) ([]domain.Curriculum, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]domain.Curriculum)
	return v, args.Error(1)
}

func (m *MockCatalogRepo) ListPerformers(ctx context.Context) ([]domain.Performer, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]domain.Performer)
	return v, args.Error(1)
}

func (m *MockCatalogRepo) ListVideoCategories(ctx context.Context) ([]domain.VideoCategory, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]domain.VideoCategory)
	return v, args.Error(1)
}

func (m *MockCatalogRepo) ListVideoCurriculums(ctx context.Context) ([]domain.VideoCurriculum, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]domain.VideoCurriculum)
	return v, args.Error(1)
}

func (m *MockCatalogRepo) ListVideoPerformers(ctx context.Context) ([]domain.VideoPerformer, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]domain.VideoPerformer)
	return v, args.Error(1)
}

func (m *MockCatalogRepo) VideoExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockActivityRepo 是 ActivityRepository 的 Mock
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockActivityRepo) ListFavorites(ctx context.Context, viewerID string) ([]string, error) {
	args := m.Called(ctx, viewerID)
	v, _ := args.Get(0).([]string)
	return v, args.Error(1)
}

func (m *MockActivityRepo) AddFavorite(ctx context.Context, viewerID, videoID string) error {
	return m.Called(ctx, viewerID, videoID).Error(0)
}

func (m *MockActivityRepo) RemoveFavorite(ctx context.Context, viewerID, videoID string) error {
	return m.Called(ctx, viewerID, videoID).Error(0)
}

func (m *MockActivityRepo) CountViews(ctx context.Context, videoIDs []string, viewerID string) ([]domain.ViewStat, error) {
	args := m.Called(ctx, videoIDs, viewerID)
	v, _ := args.Get(0).([]domain.ViewStat)
	return v, args.Error(1)
}

func (m *MockActivityRepo) RecordView(ctx context.Context, viewerID, videoID string, at time.Time) error {
	return m.Called(ctx, viewerID, videoID, at).Error(0)
}

// MockViewCountCache 是 ViewCountCache 的 Mock
type MockViewCountCache struct {
	mock.Mock
}

func (m *MockViewCountCache) GetCounts(ctx context.Context, videoIDs []string) (map[string]int, []string, error) {
	args := m.Called(ctx, videoIDs)
	counts, _ := args.Get(0).(map[string]int)
	missing, _ := args.Get(1).([]string)
	return counts, missing, args.Error(2)
}

func (m *MockViewCountCache) SetCounts(ctx context.Context, counts map[string]int, ttl time.Duration) error {
	return m.Called(ctx, counts, ttl).Error(0)
}

func (m *MockViewCountCache) Incr(ctx context.Context, videoID string) error {
	return m.Called(ctx, videoID).Error(0)
}

// MockViewCounter 是 ViewCounter 的 Mock
type MockViewCounter struct {
	mock.Mock
}

func (m *MockViewCounter) Lookup(ctx context.Context, videoIDs []string, viewerID string) map[string]domain.ViewStat {
	args := m.Called(ctx, videoIDs, viewerID)
	v, _ := args.Get(0).(map[string]domain.ViewStat)
	return v
}

func (m *MockViewCounter) Record(ctx context.Context, viewerID, videoID string, at time.Time) error {
	return m.Called(ctx, viewerID, videoID, at).Error(0)
}

// MockPreferencesRepo 是 PreferencesRepository 的 Mock
type MockPreferencesRepo struct {
	mock.Mock
}

func (m *MockPreferencesRepo) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockPreferencesRepo) Find(ctx context.Context, prefix, viewerID string) (*domain.Preferences, error) {
	args := m.Called(ctx, prefix, viewerID)
	p, _ := args.Get(0).(*domain.Preferences)
	return p, args.Error(1)
}

func (m *MockPreferencesRepo) Upsert(ctx context.Context, p domain.Preferences) error {
	return m.Called(ctx, p).Error(0)
}

// MockMediaSigner 是 MediaSigner 的 Mock
type MockMediaSigner struct {
	mock.Mock
}

func (m *MockMediaSigner) Sign(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}

// MockPublisher 是 EventPublisher 的 Mock
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishViewed(ctx context.Context, e repository.VideoViewedEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// MockRabbit 是 RabbitRepo 的 Mock
type MockRabbit struct {
	mock.Mock
}

func (m *MockRabbit) QueueDeclare(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockRabbit) Consume(queue, consumer string) (<-chan amqp.Delivery, error) {
	args := m.Called(queue, consumer)
	ch, _ := args.Get(0).(chan amqp.Delivery)
	return ch, args.Error(1)
}

// fakeAcknowledger 記錄 ack 次數
type fakeAcknowledger struct {
	mu   sync.Mutex
	acks int
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error { return nil }

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error { return nil }

func (a *fakeAcknowledger) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acks
}

// fakeClock 可手動推進的時鐘
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCatalogFetcher(clock *fakeClock) *resilience.Fetcher[Catalog] {
	return resilience.NewFetcher("catalog",
		resilience.NewBreaker(3, 30*time.Second, resilience.WithClock(clock.Now)),
		resilience.NewFreshCache[Catalog](60*time.Second, clock.Now),
		resilience.NewFallbackStore[Catalog](clock.Now),
	)
}
