package repository

import (
	"context"
	"fmt"

	"tsescan/internal/domain/models"
	"tsescan/pkg/kafka"
	"tsescan/pkg/logger"
)

type batchProducer interface {
	PublishBatch(ctx context.Context, topic string, messages []kafka.Message) error
}

// KafkaSignalPublisher emits every non-neutral signal of a completed scan
// to the signals topic, keyed by symbol so downstream consumers see each
// symbol's signals in order.
type KafkaSignalPublisher struct {
	producer batchProducer
	topic    string
	log      *logger.Logger
}

func NewKafkaSignalPublisher(producer *kafka.Producer, topic string, log *logger.Logger) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic, log: log}
}

// PublishScan implements repository.SignalPublisher.
func (p *KafkaSignalPublisher) PublishScan(ctx context.Context, result *models.ScanResult) error {
	messages := make([]kafka.Message, 0, len(result.Signals))
	for _, entry := range append(append([]models.ScanEntry{}, result.LongTop...), result.ShortTop...) {
		sig, ok := result.Signals[entry.Symbol]
		if !ok {
			continue
		}
		messages = append(messages, kafka.Message{
			Key: []byte(entry.Symbol),
			Value: signalEvent{
				Signal: sig,
				Score:  entry.Score,
			},
		})
	}
	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.PublishBatch(ctx, p.topic, messages); err != nil {
		return fmt.Errorf("publish %d signals: %w", len(messages), err)
	}
	p.log.Debug("published signals", logger.Int("count", len(messages)))
	return nil
}

type signalEvent struct {
	models.Signal
	Score float64 `json:"score"`
}
