package app

import (
	"context"
	"fmt"

	"video_library_service/pkg/database"
	"video_library_service/pkg/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// RefreshConsumer 監聽 catalog 異動通知，收到任何訊息就讓快取失效
type RefreshConsumer struct {
	rabbit    database.RabbitRepo
	uc        LibraryUseCase
	queueName string
}

// NewRefreshConsumer 建構 RefreshConsumer 實例
func NewRefreshConsumer(rabbit database.RabbitRepo, uc LibraryUseCase, queueName string) *RefreshConsumer {
	return &RefreshConsumer{
		rabbit:    rabbit,
		uc:        uc,
		queueName: queueName,
	}
}

// Start declares the queue and consumes until ctx is done or the delivery
// channel is closed
func (c *RefreshConsumer) Start(ctx context.Context) error {
	if err := c.rabbit.QueueDeclare(c.queueName); err != nil {
		return fmt.Errorf("queue[%s] declare : %w", c.queueName, err)
	}
	msgs, err := c.rabbit.Consume(c.queueName, "library-refresh")
	if err != nil {
		return fmt.Errorf("queue[%s] consume : %w", c.queueName, err)
	}

	logger.Log.Info("refresh consumer started", zap.String("queue", c.queueName))
	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				logger.Log.Warn("RabbitMQ 消費 channel 已關閉", zap.String("queue", c.queueName))
				return nil
			}
			c.handle(d)
		case <-ctx.Done():
			logger.Log.Info("refresh consumer 收到停止訊號")
			return nil
		}
	}
}

func (c *RefreshConsumer) handle(d amqp.Delivery) {
	logger.Log.Info("收到 catalog 異動通知", zap.String("message_id", d.MessageId), zap.Int("bytes", len(d.Body)))
	c.uc.Refresh()
	if err := d.Ack(false); err != nil {
		logger.Log.Warn("確認訊息失敗", zap.String("message_id", d.MessageId), zap.Error(err))
	}
}
