package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"foodgram-go/internal/config"
	"foodgram-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var producer *kafka.Writer

// 菜谱变更事件类型
const (
	RecipeCreated = "recipe.created"
	RecipeUpdated = "recipe.updated"
	RecipeDeleted = "recipe.deleted"
)

var errProducerNotInitialized = errors.New("kafka producer not initialized")

// RecipeEvent 菜谱变更事件消息体，由搜索同步 worker 消费
type RecipeEvent struct {
	Type       string    `json:"type"`
	RecipeID   int64     `json:"recipe_id"`
	AuthorID   int64     `json:"author_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key 消息键，同一菜谱的事件落在同一分区以保证顺序
func (e *RecipeEvent) Key() []byte {
	return []byte(fmt.Sprintf("recipe-%d", e.RecipeID))
}

// InitProducer 初始化 Kafka 生产者
func InitProducer(cfg *config.KafkaConfig) error {
	producer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return nil
}

// RecipeEventPublisher 把菜谱事件发送到固定 topic
type RecipeEventPublisher struct {
	topic string
}

func NewRecipeEventPublisher(topic string) *RecipeEventPublisher {
	return &RecipeEventPublisher{topic: topic}
}

// Publish 发送菜谱变更事件
func (p *RecipeEventPublisher) Publish(ctx context.Context, event *RecipeEvent) error {
	if producer == nil {
		return errProducerNotInitialized
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   event.Key(),
		Value: payload,
	}

	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send recipe event: %w", err)
	}

	logger.Debug("Recipe event sent",
		zap.String("type", event.Type),
		zap.Int64("recipe_id", event.RecipeID),
		zap.String("topic", p.topic),
	)

	return nil
}

// CloseProducer 关闭生产者
func CloseProducer() error {
	if producer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return producer.Close()
}
