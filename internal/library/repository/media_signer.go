package repository

import (
	"context"
	"time"

	"video_library_service/pkg/database"
)

// MediaSigner 把 minio object key 轉成可播放的短效 URL
type MediaSigner interface {
	Sign(ctx context.Context, objectKey string) (string, error)
}

type mediaSigner struct {
	client database.MinIOClientRepo
	expiry time.Duration
}

// NewMediaSigner create MediaSigner, expiry 預設 1 小時
func NewMediaSigner(client database.MinIOClientRepo, expiry time.Duration) MediaSigner {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &mediaSigner{client: client, expiry: expiry}
}

// Sign 空 key 回傳空字串
func (s *mediaSigner) Sign(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	return s.client.PresignGetURL(ctx, objectKey, s.expiry)
}
