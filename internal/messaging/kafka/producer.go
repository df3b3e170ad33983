package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/hitoshi/storefront/internal/model"
)

// Producer は注文イベントを同期送信するKafkaプロデューサー。
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewProducer はブローカーに接続するプロデューサーを生成する。
// topicが空の場合はDefaultOrderTopicを使う。
func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return newProducer(producer, topic), nil
}

func newProducer(producer sarama.SyncProducer, topic string) *Producer {
	if topic == "" {
		topic = DefaultOrderTopic
	}
	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   slog.Default().With(slog.String("component", "kafka-producer")),
	}
}

// OrderCreated はorder.createdイベントを発行する。
func (p *Producer) OrderCreated(ctx context.Context, order *model.Order) error {
	return p.PublishOrderEvent(ctx, NewOrderEvent(EventTypeOrderCreated, order))
}

// OrderStatusUpdated はorder.status_updatedイベントを発行する。
func (p *Producer) OrderStatusUpdated(ctx context.Context, order *model.Order) error {
	return p.PublishOrderEvent(ctx, NewOrderEvent(EventTypeOrderStatusUpdated, order))
}

// PublishOrderEvent はイベントをJSONにしてトピックへ送信する。
// SyncProducerはcontextを受け取らないため、送信前にキャンセル済みかだけを確認する。
func (p *Producer) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.OrderID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error("failed to send message to kafka",
			slog.String("topic", p.topic),
			slog.String("order_id", event.OrderID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.Debug("message sent to kafka",
		slog.String("topic", p.topic),
		slog.String("event_type", string(event.EventType)),
		slog.String("order_id", event.OrderID),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
	)
	return nil
}

// Close はプロデューサーを閉じる。
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}
