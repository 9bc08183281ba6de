package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

// VideoViewedEvent kafka 訊息內容
type VideoViewedEvent struct {
	VideoID  string    `json:"video_id"`
	ViewerID string    `json:"viewer_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

// EventPublisher 發布觀看事件
type EventPublisher interface {
	PublishViewed(ctx context.Context, e VideoViewedEvent) error
	Close() error
}

// messageWriter kafka.Writer 的最小介面
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher create EventPublisher, writer 通常是 *kafka.Writer
func NewKafkaPublisher(writer messageWriter) EventPublisher {
	return &kafkaPublisher{writer: writer}
}

// PublishViewed 以 video_id 作為 key，同一部影片的事件落在同一個 partition
func (p *kafkaPublisher) PublishViewed(ctx context.Context, e VideoViewedEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("videoID[%s] marshal event : %w", e.VideoID, err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.VideoID),
		Value: data,
		Time:  e.ViewedAt,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
