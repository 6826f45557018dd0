package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"my-calendar/internal/config"
	calkafka "my-calendar/internal/kafka"
	"my-calendar/internal/models"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

var topics = config.TopicConfig{
	EventCreated: "calendar.event.created",
	EventUpdated: "calendar.event.updated",
	EventDeleted: "calendar.event.deleted",
}

func TestEventPublisherRoutesByType(t *testing.T) {
	writer := &recordingWriter{}
	publisher := calkafka.NewEventPublisher(calkafka.NewProducerWithWriter(writer, nil), topics)
	ctx := context.Background()

	event := &models.Event{ID: 7, Name: "Lunch"}
	require.NoError(t, publisher.PublishEventNotification(ctx, models.NewEventNotification(models.EventCreated, 7, event)))
	require.NoError(t, publisher.PublishEventNotification(ctx, models.NewEventNotification(models.EventDeleted, 7, nil)))

	require.Len(t, writer.messages, 2)
	assert.Equal(t, "calendar.event.created", writer.messages[0].Topic)
	assert.Equal(t, "calendar.event.deleted", writer.messages[1].Topic)
	assert.Equal(t, []byte("7"), writer.messages[0].Key)

	var decoded models.EventNotification
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, models.EventCreated, decoded.Type)
	assert.Equal(t, int64(7), decoded.EventID)
	require.NotNil(t, decoded.Event)
	assert.Equal(t, "Lunch", decoded.Event.Name)
}

func TestEventPublisherErrors(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	publisher := calkafka.NewEventPublisher(calkafka.NewProducerWithWriter(writer, nil), topics)
	ctx := context.Background()

	assert.Error(t, publisher.PublishEventNotification(ctx, models.NewEventNotification(models.EventUpdated, 1, nil)))
	assert.Error(t, publisher.PublishEventNotification(ctx, models.NewEventNotification("archived", 1, nil)))
}

func TestMockProducerDoesNotSend(t *testing.T) {
	producer := calkafka.NewMockProducer(nil)
	publisher := calkafka.NewEventPublisher(producer, topics)

	assert.NoError(t, publisher.PublishEventNotification(context.Background(), models.NewEventNotification(models.EventCreated, 1, nil)))
	assert.NoError(t, producer.Close())
}

type scriptedReader struct {
	messages []kafka.Message
	closed   bool
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func TestConsumerDecodesNotifications(t *testing.T) {
	payload, err := json.Marshal(models.NewEventNotification(models.EventUpdated, 3, nil))
	require.NoError(t, err)

	reader := &scriptedReader{messages: []kafka.Message{
		{Topic: "calendar.event.updated", Value: []byte("{not json")},
		{Topic: "calendar.event.updated", Value: payload},
	}}
	consumer := calkafka.NewConsumerWithReader(reader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var received []models.EventNotification
	err = consumer.Start(ctx, func(n models.EventNotification) {
		received = append(received, n)
		cancel()
	})

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, int64(3), received[0].EventID)
	require.NoError(t, consumer.Close())
	assert.True(t, reader.closed)
}
