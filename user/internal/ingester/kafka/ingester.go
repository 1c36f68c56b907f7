package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	moviemodel "cineview/movie/pkg/model"
	"cineview/pkg/logging"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"
)

const pollTimeout = time.Second

// Ingester defines a Kafka ingester of movie events.
type Ingester struct {
	consumer *kafka.Consumer
	topic    string
	logger   *zap.Logger
}

// NewIngester creates a new Kafka ingester.
func NewIngester(addr string, groupID string, topic string, logger *zap.Logger) (*Ingester, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "kafka-ingester"),
		zap.String("topic", topic),
	)
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": addr,
		"group.id":          groupID,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		return nil, err
	}
	return &Ingester{consumer: consumer, topic: topic, logger: logger}, nil
}

// Ingest starts ingestion from Kafka and returns a channel of the movie
// events consumed from the topic. The channel is closed and the consumer
// shut down once ctx is done.
func (i *Ingester) Ingest(ctx context.Context) (<-chan moviemodel.Event, error) {
	i.logger.Info("Starting Kafka ingester")
	if err := i.consumer.SubscribeTopics([]string{i.topic}, nil); err != nil {
		return nil, err
	}
	ch := make(chan moviemodel.Event, 1)
	go func() {
		defer func() {
			close(ch)
			if err := i.consumer.Close(); err != nil {
				i.logger.Warn("Failed to close consumer", zap.Error(err))
			}
		}()
		for ctx.Err() == nil {
			msg, err := i.consumer.ReadMessage(pollTimeout)
			if err != nil {
				var kerr kafka.Error
				if errors.As(err, &kerr) && kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				i.logger.Warn("Consumer error", zap.Error(err))
				continue
			}
			var event moviemodel.Event
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				i.logger.Warn("Unmarshal error", zap.Error(err))
				continue
			}
			select {
			case ch <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
