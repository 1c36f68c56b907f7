package kafka

import (
	"context"
	"encoding/json"

	"cineview/movie/pkg/model"
	"cineview/pkg/logging"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"
)

// DefaultTopic is the topic movie events are written to.
const DefaultTopic = "movie-events"

const flushTimeoutMs = 5000

// Publisher defines a Kafka movie event publisher.
type Publisher struct {
	producer *kafka.Producer
	topic    string
	logger   *zap.Logger
	done     chan struct{}
}

// NewPublisher creates a new Kafka publisher.
func NewPublisher(addr string, topic string, logger *zap.Logger) (*Publisher, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "kafka-publisher"),
		zap.String("topic", topic),
	)
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": addr,
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}
	p := &Publisher{producer: producer, topic: topic, logger: logger, done: make(chan struct{})}
	go p.drain()
	return p, nil
}

// Publish enqueues ev keyed by its movie id. Delivery is reported
// asynchronously and failures are only logged.
func (p *Publisher) Publish(_ context.Context, ev *model.Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(ev.MovieID),
		Value:          value,
	}, nil)
}

// Close flushes pending messages and closes the producer.
func (p *Publisher) Close() error {
	if remaining := p.producer.Flush(flushTimeoutMs); remaining > 0 {
		p.logger.Warn("Unflushed messages dropped", zap.Int("count", remaining))
	}
	p.producer.Close()
	<-p.done
	return nil
}

func (p *Publisher) drain() {
	defer close(p.done)
	for e := range p.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				p.logger.Warn("Delivery failed", zap.Error(ev.TopicPartition.Error))
			}
		case kafka.Error:
			p.logger.Warn("Producer error", zap.Error(ev))
		}
	}
}
