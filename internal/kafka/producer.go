package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/segmentio/kafka-go"

	"my-calendar/internal/config"
	"my-calendar/internal/logger"
	"my-calendar/internal/models"
)

// MessageWriter is the part of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer MessageWriter
	Logger *logger.Logger
}

// NewProducer returns a producer whose messages carry their own topic.
func NewProducer(brokers []string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: writer, Logger: ensureLogger(log)}
}

func NewProducerWithWriter(writer MessageWriter, log *logger.Logger) *Producer {
	return &Producer{Writer: writer, Logger: ensureLogger(log)}
}

// NewMockProducer logs messages instead of sending them.
func NewMockProducer(log *logger.Logger) *Producer {
	return &Producer{Logger: ensureLogger(log)}
}

func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte) error {
	if p.Writer == nil {
		p.Logger.LogKafka("MOCK_PUBLISH", topic, string(value))
		return nil
	}

	p.Logger.LogKafka("PUBLISH", topic, string(key))
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

func (p *Producer) Close() error {
	if p.Writer == nil {
		return nil
	}
	return p.Writer.Close()
}

// EventPublisher streams event lifecycle notifications, one topic per type.
type EventPublisher struct {
	Producer *Producer
	Topics   config.TopicConfig
}

func NewEventPublisher(producer *Producer, topics config.TopicConfig) *EventPublisher {
	return &EventPublisher{Producer: producer, Topics: topics}
}

func (p *EventPublisher) PublishEventNotification(ctx context.Context, n models.EventNotification) error {
	topic, err := p.topicFor(n.Type)
	if err != nil {
		return err
	}

	msgBytes, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.Producer.Publish(ctx, topic, []byte(strconv.FormatInt(n.EventID, 10)), msgBytes)
}

func (p *EventPublisher) topicFor(kind models.NotificationType) (string, error) {
	switch kind {
	case models.EventCreated:
		return p.Topics.EventCreated, nil
	case models.EventUpdated:
		return p.Topics.EventUpdated, nil
	case models.EventDeleted:
		return p.Topics.EventDeleted, nil
	}
	return "", fmt.Errorf("unknown notification type %q", kind)
}

func ensureLogger(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.NewLoggerWithWriter(io.Discard)
	}
	return log
}
