package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

var (
	_ domain.PublisherPort          = (*KafkaPublisher)(nil)
	_ domain.PurchaseEventPublisher = (*KafkaPublisher)(nil)
	_ domain.PurchaseEventPublisher = NopPublisher{}
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher writes purchase lifecycle events keyed by unit id, so one
// unit's events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka publisher: empty topic")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
		topic: cfg.Topic,
	}, nil
}

func (k *KafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Topic: topic,
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
		})
	}
	return k.writer.WriteMessages(ctx, km...)
}

func (k *KafkaPublisher) PublishPurchase(ctx context.Context, event domain.PurchaseEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.Publish(ctx, k.topic, domain.Message{Key: []byte(event.UnitID), Value: v})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// NopPublisher drops every event; used when kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishPurchase(context.Context, domain.PurchaseEvent) error { return nil }
