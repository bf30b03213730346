package kafka

import (
	"context"
	"errors"
	"fmt"

	"ms-events/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Consumer tails a single-partition topic from its latest offset. Every
// instance sees every message, which is what a local fan-out needs.
type Consumer struct {
	reader *kafka.Reader
	log    *logger.Logger
}

func NewConsumer(brokers []string, topic string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	if err := reader.SetOffset(kafka.LastOffset); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Failed to seek %s to latest offset: %v", topic, err))
	}
	return &Consumer{reader: reader, log: log}
}

// Start blocks, passing each message value to handler until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, handler func(ctx context.Context, value []byte) error) {
	topic := c.reader.Config().Topic
	c.log.LogKafka("CONSUME", topic, "consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				c.log.LogKafka("CONSUME", topic, "consumer stopped")
				return
			}
			c.log.Error("KAFKA", fmt.Sprintf("Error reading message from %s: %v", topic, err))
			continue
		}

		if err := handler(ctx, msg.Value); err != nil {
			c.log.Error("KAFKA", fmt.Sprintf("Failed to handle message %s@%d: %v", topic, msg.Offset, err))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
