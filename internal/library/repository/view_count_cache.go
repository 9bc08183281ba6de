package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// ViewCountCache 觀看次數快取 (redis)，只存全站總數，不存個人紀錄
type ViewCountCache interface {
	// GetCounts returns the cached counts and the ids that were not cached
	GetCounts(ctx context.Context, videoIDs []string) (map[string]int, []string, error)
	SetCounts(ctx context.Context, counts map[string]int, ttl time.Duration) error
	// Incr bumps a cached count, a missing key stays missing
	Incr(ctx context.Context, videoID string) error
}

// ViewCountKey redis key of a video's view count
func ViewCountKey(videoID string) string {
	return "library:views:" + videoID
}

// incrIfExists 只對已存在的 key 累加，避免從 1 開始算出錯誤總數
var incrIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("INCR", KEYS[1])
end
return 0
`)

type viewCountCache struct {
	client redis.UniversalClient
}

// NewViewCountCache create ViewCountCache
func NewViewCountCache(client redis.UniversalClient) ViewCountCache {
	return &viewCountCache{client: client}
}

func (c *viewCountCache) GetCounts(ctx context.Context, videoIDs []string) (map[string]int, []string, error) {
	counts := make(map[string]int, len(videoIDs))
	if len(videoIDs) == 0 {
		return counts, nil, nil
	}

	keys := make([]string, 0, len(videoIDs))
	for _, id := range videoIDs {
		keys = append(keys, ViewCountKey(id))
	}
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, videoIDs, err
	}

	var missing []string
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, videoIDs[i])
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			missing = append(missing, videoIDs[i])
			continue
		}
		counts[videoIDs[i]] = n
	}
	return counts, missing, nil
}

func (c *viewCountCache) SetCounts(ctx context.Context, counts map[string]int, ttl time.Duration) error {
	if len(counts) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for id, n := range counts {
			p.Set(ctx, ViewCountKey(id), n, ttl)
		}
		return nil
	})
	return err
}

func (c *viewCountCache) Incr(ctx context.Context, videoID string) error {
	err := incrIfExists.Run(ctx, c.client, []string{ViewCountKey(videoID)}).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
