package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"wall-service/pkg/events"

	"github.com/IBM/sarama"
)

// Activity is one successful REST mutation, published for offline consumers
type Activity struct {
	Type      events.Kind `json:"type"`
	UserID    uint        `json:"userId"`
	MessageID string      `json:"messageId,omitempty"`
	Text      string      `json:"text,omitempty"`
	At        time.Time   `json:"at"`
}

// Key groups the activity of one message on one partition
func (a Activity) Key() string {
	if a.MessageID != "" {
		return a.MessageID
	}
	return fmt.Sprint(a.UserID)
}

type ActivityPublisher interface {
	Publish(ctx context.Context, a Activity) error
	Close() error
}

// NopActivityPublisher is used when no brokers are configured
type NopActivityPublisher struct{}

func (NopActivityPublisher) Publish(context.Context, Activity) error { return nil }

func (NopActivityPublisher) Close() error { return nil }

type KafkaActivityPublisher struct {
	producer sarama.AsyncProducer
	topic    string
	wg       sync.WaitGroup
}

func newProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "wall-service"
	config.Version = sarama.V2_0_0_0
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Retry.Max = 5
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Producer.Flush.Frequency = 50 * time.Millisecond
	config.Producer.Return.Errors = true
	return config
}

func NewKafkaActivityPublisher(brokers []string, topic string) (*KafkaActivityPublisher, error) {
	producer, err := sarama.NewAsyncProducer(brokers, newProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return newKafkaActivityPublisher(producer, topic), nil
}

func newKafkaActivityPublisher(producer sarama.AsyncProducer, topic string) *KafkaActivityPublisher {
	p := &KafkaActivityPublisher{producer: producer, topic: topic}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for perr := range producer.Errors() {
			slog.Error("Failed to publish activity", "topic", perr.Msg.Topic, "error", perr.Err)
		}
	}()
	return p
}

// Publish queues a; delivery errors are logged asynchronously
func (p *KafkaActivityPublisher) Publish(ctx context.Context, a Activity) error {
	value, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(a.Key()),
		Value: sarama.ByteEncoder(value),
	}
	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes buffered messages and waits for the error drain
func (p *KafkaActivityPublisher) Close() error {
	p.producer.AsyncClose()
	p.wg.Wait()
	return nil
}
