// Package kafka publishes outbox messages to the shipment event topic.
package kafka

import (
	"context"
	"fmt"

	"fastship/internal/core/ports"

	skafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of *kafka.Writer used by the publisher.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Options configures the topic writer.
type Options struct {
	Brokers []string
	Topic   string
}

// Publisher writes outbox messages keyed by aggregate, so the hash balancer keeps the
// events of one shipment in one partition and therefore in order.
type Publisher struct {
	writer Writer
}

func NewPublisher(opts Options) *Publisher {
	return NewPublisherWithWriter(&skafka.Writer{
		Addr:                   skafka.TCP(opts.Brokers...),
		Topic:                  opts.Topic,
		Balancer:               &skafka.Hash{},
		RequiredAcks:           skafka.RequireAll,
		AllowAutoTopicCreation: true,
	})
}

// NewPublisherWithWriter allows injecting a test writer.
func NewPublisherWithWriter(w Writer) *Publisher {
	return &Publisher{writer: w}
}

// Publish writes the batch in one call. On error none of the messages may be assumed
// delivered; the caller publishes them again.
func (p *Publisher) Publish(ctx context.Context, messages []ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	batch := make([]skafka.Message, 0, len(messages))
	for _, m := range messages {
		batch = append(batch, skafka.Message{
			Key:   []byte(m.Key),
			Value: m.Payload,
			Time:  m.CreatedAt,
			Headers: []skafka.Header{
				{Key: "message_id", Value: []byte(m.ID.String())},
				{Key: "type", Value: []byte(m.Type)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		return fmt.Errorf("write %d messages: %w", len(batch), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
