// Package events publishes storefront events, such as placed orders, to
// whoever listens downstream.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/shophub/internal/config"
)

// Publisher sends one event. Payloads are encoded as JSON.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
	Close() error
}

// Open builds the publisher selected by cfg.Driver.
func Open(cfg config.EventsConfig, log logrus.FieldLogger) (Publisher, error) {
	switch cfg.Driver {
	case "", "log":
		return NewLogPublisher(log), nil
	case "kafka":
		return NewKafkaPublisher(cfg.KafkaBrokers)
	default:
		return nil, fmt.Errorf("unknown EVENTS_DRIVER: %s", cfg.Driver)
	}
}

type logPublisher struct {
	log logrus.FieldLogger
}

// NewLogPublisher writes events to the log instead of a broker.
func NewLogPublisher(log logrus.FieldLogger) Publisher {
	return &logPublisher{log: log.WithField("module", "events")}
}

func (p *logPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	p.log.WithFields(logrus.Fields{"topic": topic, "key": key, "payload": string(body)}).Info("event published")
	return nil
}

func (p *logPublisher) Close() error { return nil }

type kafkaPublisher struct {
	producer sarama.SyncProducer
}

func NewKafkaPublisher(brokers []string) (Publisher, error) {
	conf := sarama.NewConfig()
	conf.ClientID = "shophub"
	conf.Producer.RequiredAcks = sarama.WaitForAll
	conf.Producer.Return.Successes = true
	conf.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, conf)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaPublisherFromProducer(producer), nil
}

// NewKafkaPublisherFromProducer wraps an existing producer.
func NewKafkaPublisherFromProducer(producer sarama.SyncProducer) Publisher {
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("send to %s: %w", topic, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error { return p.producer.Close() }
