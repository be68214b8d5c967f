//go:generate go run go.uber.org/mock/mockgen -source=publisher.go -destination=../../mocks/mock_publisher.go -package=mocks
package events

import (
	"chat-service/domain/event"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher delivers domain events once the related write is committed.
type Publisher interface {
	Publish(ctx context.Context, e event.Event) error
	Close() error
}

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
	log    *slog.Logger
}

func NewKafkaWriter(brokers []string, topic, clientID string, writeTimeout time.Duration) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: writeTimeout,
		Transport:    &kafka.Transport{ClientID: clientID},
	}
}

func NewKafkaPublisher(writer MessageWriter, log *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

// Publish writes the event keyed by conversation id, so every event of a
// conversation lands on the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, e event.Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("unable to encode event %s: %w", e.Type, err)
	}
	msg := kafka.Message{
		Key:     []byte(e.Key()),
		Value:   value,
		Time:    e.At,
		Headers: []kafka.Header{{Key: "type", Value: []byte(e.Type)}},
	}
	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("unable to publish event %s: %w", e.Type, err)
	}
	p.log.Debug("Event published", "type", e.Type, "conversation_id", e.ConversationID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e event.Event) error {
	p.log.Debug("Event dropped, no broker configured", "type", e.Type, "conversation_id", e.ConversationID)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
