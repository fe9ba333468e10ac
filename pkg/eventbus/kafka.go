package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Writer is the subset of *kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	Brokers []string
	Topic   string
}

// Publisher publishes JSON encoded events keyed by an aggregate id.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

type kafkaPublisher struct {
	writer Writer
}

func NewKafkaPublisher(cfg Config) Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &kafkaPublisher{writer: w}
}

func NewKafkaPublisherWithWriter(w Writer) Publisher {
	return &kafkaPublisher{writer: w}
}

func (p *kafkaPublisher) Publish(ctx context.Context, key string, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *kafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

type noop struct{}

// Noop discards events; used when no brokers are configured.
func Noop() Publisher { return noop{} }

func (noop) Publish(context.Context, string, any) error { return nil }
func (noop) Close() error                               { return nil }
