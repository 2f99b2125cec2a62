// Package kafka publishes payment events for the notification service.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafkago.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type Publisher struct {
	writer MessageWriter
	logger *slog.Logger
}

// NewWriter builds an async writer that partitions by message key. Delivery failures surface in the
// completion callback, not from WriteMessages.
func NewWriter(cfg config.KafkaConfig, logger *slog.Logger) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		Async:        true,
		RequiredAcks: kafkago.RequireOne,
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...), "component", "kafka-writer")
		}),
		Completion: func(messages []kafkago.Message, err error) {
			if err != nil {
				logger.Error("payment events not delivered", "count", len(messages), "error", err)
			}
		},
	}
}

func NewPublisher(writer MessageWriter, logger *slog.Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger}
}

// Publish enqueues evt keyed by transaction id so events for one
// transaction stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, evt domain.PaymentEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal payment event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(evt.TransactionID),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}

	p.logger.Debug("payment event published",
		"type", evt.Type,
		"transaction_id", evt.TransactionID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
