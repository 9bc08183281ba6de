package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"video_library_service/internal/library/domain"
	"video_library_service/pkg/database"
	"video_library_service/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMinIOClient 是 MinIOClientRepo 的 Mock
type MockMinIOClient struct {
	mock.Mock
}

func (m *MockMinIOClient) PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

// MockPrefsCache 是 RedisRepository[domain.Preferences] 的 Mock
type MockPrefsCache struct {
	mock.Mock
}

func (m *MockPrefsCache) Set(ctx context.Context, key string, value domain.Preferences, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockPrefsCache) Get(ctx context.Context, key string) (domain.Preferences, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.Preferences), args.Error(1)
}

func (m *MockPrefsCache) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockPrefsCache) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
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

// fakeWriter 記錄寫入的 kafka 訊息
type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestMediaSigner(t *testing.T) {
	ctx := context.Background()

	t.Run("簽出短效 URL", func(t *testing.T) {
		mc := new(MockMinIOClient)
		mc.On("PresignGetURL", ctx, "original/v1/kata.mp4", 30*time.Minute).
			Return("http://minio/signed", nil).Once()

		s := NewMediaSigner(mc, 30*time.Minute)
		url, err := s.Sign(ctx, "original/v1/kata.mp4")
		assert.NoError(t, err)
		assert.Equal(t, "http://minio/signed", url)
		mc.AssertExpectations(t)
	})

	t.Run("空 key 不呼叫 minio", func(t *testing.T) {
		mc := new(MockMinIOClient)
		s := NewMediaSigner(mc, 0)
		url, err := s.Sign(ctx, "")
		assert.NoError(t, err)
		assert.Empty(t, url)
		mc.AssertNotCalled(t, "PresignGetURL", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("預設一小時", func(t *testing.T) {
		mc := new(MockMinIOClient)
		mc.On("PresignGetURL", ctx, "k", time.Hour).Return("", errors.New("down")).Once()
		_, err := NewMediaSigner(mc, 0).Sign(ctx, "k")
		assert.EqualError(t, err, "down")
		mc.AssertExpectations(t)
	})
}

func TestKafkaPublisher(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("以 video_id 為 key 寫入 JSON", func(t *testing.T) {
		w := &fakeWriter{}
		p := NewKafkaPublisher(w)
		require.NoError(t, p.PublishViewed(ctx, VideoViewedEvent{VideoID: "v1", ViewerID: "u1", ViewedAt: at}))

		require.Len(t, w.msgs, 1)
		assert.Equal(t, "v1", string(w.msgs[0].Key))

		var got VideoViewedEvent
		require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
		assert.Equal(t, "u1", got.ViewerID)
		assert.True(t, at.Equal(got.ViewedAt))

		assert.NoError(t, p.Close())
		assert.True(t, w.closed)
	})

	t.Run("寫入失敗回傳錯誤", func(t *testing.T) {
		p := NewKafkaPublisher(&fakeWriter{err: errors.New("broker down")})
		assert.Error(t, p.PublishViewed(ctx, VideoViewedEvent{VideoID: "v1", ViewedAt: at}))
	})
}

func TestCachedPreferencesRepository(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	prefs := domain.Preferences{Prefix: "dojo", ViewerID: "u1", ViewMode: domain.ViewList, ItemsPerPage: 48}
	key := PreferencesKey("dojo", "u1")

	t.Run("快取命中不查 mongo 並延長 TTL", func(t *testing.T) {
		next := new(MockPreferencesRepo)
		cache := new(MockPrefsCache)
		cache.On("Get", ctx, key).Return(prefs, nil).Once()
		cache.On("ExtendTTL", ctx, key, time.Minute).Return(nil).Once()

		r := NewCachedPreferencesRepository(next, cache, time.Minute)
		got, err := r.Find(ctx, "dojo", "u1")
		assert.NoError(t, err)
		assert.Equal(t, prefs, *got)
		next.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("延長 TTL 失敗仍回傳快取", func(t *testing.T) {
		next := new(MockPreferencesRepo)
		cache := new(MockPrefsCache)
		cache.On("Get", ctx, key).Return(prefs, nil).Once()
		cache.On("ExtendTTL", ctx, key, time.Minute).Return(errors.New("redis down")).Once()

		got, err := NewCachedPreferencesRepository(next, cache, time.Minute).Find(ctx, "dojo", "u1")
		assert.NoError(t, err)
		assert.Equal(t, prefs, *got)
		next.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("快取未命中讀 mongo 並回填", func(t *testing.T) {
		next := new(MockPreferencesRepo)
		cache := new(MockPrefsCache)
		cache.On("Get", ctx, key).Return(domain.Preferences{}, database.ErrCacheMiss).Once()
		next.On("Find", ctx, "dojo", "u1").Return(&prefs, nil).Once()
		cache.On("Set", ctx, key, prefs, time.Minute).Return(nil).Once()

		r := NewCachedPreferencesRepository(next, cache, time.Minute)
		got, err := r.Find(ctx, "dojo", "u1")
		assert.NoError(t, err)
		assert.Equal(t, prefs, *got)
		next.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("redis 故障仍可讀 mongo", func(t *testing.T) {
		next := new(MockPreferencesRepo)
		cache := new(MockPrefsCache)
		cache.On("Get", ctx, key).Return(domain.Preferences{}, errors.New("redis down")).Once()
		cache.On("Set", ctx, key, prefs, time.Minute).Return(errors.New("redis down")).Once()
		next.On("Find", ctx, "dojo", "u1").Return(&prefs, nil).Once()

		got, err := NewCachedPreferencesRepository(next, cache, time.Minute).Find(ctx, "dojo", "u1")
		assert.NoError(t, err)
		assert.Equal(t, 48, got.ItemsPerPage)
	})

	t.Run("找不到不寫快取", func(t *testing.T) {
		next := new(MockPreferencesRepo)
		cache := new(MockPrefsCache)
		cache.On("Get", ctx, key).Return(domain.Preferences{}, database.ErrCacheMiss).Once()
		next.On("Find", ctx, "dojo", "u1").Return(nil, ErrPreferencesNotFound).Once()

		_, err := NewCachedPreferencesRepository(next, cache, time.Minute).Find(ctx, "dojo", "u1")
		assert.ErrorIs(t, err, ErrPreferencesNotFound)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("寫入後清掉快取", func(t *testing.T) {
		next := new(MockPreferencesRepo)
		cache := new(MockPrefsCache)
		next.On("Upsert", ctx, prefs).Return(nil).Once()
		cache.On("Del", ctx, key).Return(nil).Once()

		assert.NoError(t, NewCachedPreferencesRepository(next, cache, time.Minute).Upsert(ctx, prefs))
		next.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("mongo 寫入失敗不動快取", func(t *testing.T) {
		next := new(MockPreferencesRepo)
		cache := new(MockPrefsCache)
		next.On("Upsert", ctx, prefs).Return(errors.New("mongo down")).Once()

		assert.Error(t, NewCachedPreferencesRepository(next, cache, time.Minute).Upsert(ctx, prefs))
		cache.AssertNotCalled(t, "Del", mock.Anything, mock.Anything)
	})
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "library:views:v1", ViewCountKey("v1"))
	assert.Equal(t, "library:prefs:dojo:u1", PreferencesKey("dojo", "u1"))
}
