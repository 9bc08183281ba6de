package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"video_library_service/internal/library/domain"
	"video_library_service/pkg/database"
	"video_library_service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrPreferencesNotFound 尚未儲存偏好設定
var ErrPreferencesNotFound = errors.New("preferences not found")

// PreferencesRepository 依 (prefix, viewer) 儲存顯示偏好
type PreferencesRepository interface {
	EnsureIndexes(ctx context.Context) error
	Find(ctx context.Context, prefix, viewerID string) (*domain.Preferences, error)
	Upsert(ctx context.Context, p domain.Preferences) error
}

type preferencesRepository struct {
	coll *mongo.Collection
}

// NewMongoPreferencesRepository create a PreferencesRepository
func NewMongoPreferencesRepository(db *mongo.Database) PreferencesRepository {
	return &preferencesRepository{
		coll: db.Collection("library_preferences"),
	}
}

func (r *preferencesRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "prefix", Value: 1}, {Key: "viewer_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *preferencesRepository) Find(ctx context.Context, prefix, viewerID string) (*domain.Preferences, error) {
	var p domain.Preferences
	err := r.coll.FindOne(ctx, bson.M{"prefix": prefix, "viewer_id": viewerID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPreferencesNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *preferencesRepository) Upsert(ctx context.Context, p domain.Preferences) error {
	filter := bson.M{"prefix": p.Prefix, "viewer_id": p.ViewerID}
	update := bson.M{"$set": p}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// cachedPreferencesRepository read-through redis cache in front of another
// PreferencesRepository
type cachedPreferencesRepository struct {
	next  PreferencesRepository
	cache database.RedisRepository[domain.Preferences]
	ttl   time.Duration
}

// NewCachedPreferencesRepository wrap next with a redis cache
func NewCachedPreferencesRepository(next PreferencesRepository, cache database.RedisRepository[domain.Preferences], ttl time.Duration) PreferencesRepository {
	return &cachedPreferencesRepository{next: next, cache: cache, ttl: ttl}
}

// PreferencesKey redis key of a viewer's preferences
func PreferencesKey(prefix, viewerID string) string {
	return fmt.Sprintf("library:prefs:%s:%s", prefix, viewerID)
}

func (r *cachedPreferencesRepository) EnsureIndexes(ctx context.Context) error {
	return r.next.EnsureIndexes(ctx)
}

func (r *cachedPreferencesRepository) Find(ctx context.Context, prefix, viewerID string) (*domain.Preferences, error) {
	key := PreferencesKey(prefix, viewerID)
	if p, err := r.cache.Get(ctx, key); err == nil {
		// 命中時滑動過期時間
		if err := r.cache.ExtendTTL(ctx, key, r.ttl); err != nil {
			logger.Log.Warn("preferences cache ttl extend failed", zap.String("key", key), zap.Error(err))
		}
		return &p, nil
	} else if !errors.Is(err, database.ErrCacheMiss) {
		logger.Log.Warn("preferences cache read failed", zap.String("key", key), zap.Error(err))
	}

	p, err := r.next.Find(ctx, prefix, viewerID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, *p, r.ttl); err != nil {
		logger.Log.Warn("preferences cache write failed", zap.String("key", key), zap.Error(err))
	}
	return p, nil
}

func (r *cachedPreferencesRepository) Upsert(ctx context.Context, p domain.Preferences) error {
	if err := r.next.Upsert(ctx, p); err != nil {
		return err
	}
	key := PreferencesKey(p.Prefix, p.ViewerID)
	if err := r.cache.Del(ctx, key); err != nil {
		logger.Log.Warn("preferences cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}
