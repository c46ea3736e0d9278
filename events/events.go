// Package events publishes funnel events to Kafka for downstream CRM and
// analytics consumers. Publishing is best-effort: callers log failures and
// never fail the originating request.
package events

import (
	"encoding/json"
	"time"

	"funnel-svc/models"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Event types carried on the topic.
const (
	TypePurchaseCompleted = "purchase.completed"
	TypeLeadCreated       = "lead.created"
)

type envelope struct {
	Type       string `json:"type"`
	OccurredAt string `json:"occurred_at"`
	Payload    any    `json:"payload"`
}

// Publisher emits funnel events.
type Publisher interface {
	PublishPurchaseCompleted(p models.Purchase) error
	PublishLeadCreated(l models.Lead) error
	Close() error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewKafkaPublisher connects a sync producer to the given brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) (Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Kafka producer initialized", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return &kafkaPublisher{producer: producer, topic: topic, logger: logger}, nil
}

func (p *kafkaPublisher) publish(key string, eventType string, payload any) error {
	b, err := json.Marshal(envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Payload:    payload,
	})
	if err != nil {
		return err
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		return err
	}
	p.logger.Debug("Event published",
		zap.String("type", eventType),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *kafkaPublisher) PublishPurchaseCompleted(purchase models.Purchase) error {
	return p.publish(purchase.SessionID, TypePurchaseCompleted, purchase)
}

func (p *kafkaPublisher) PublishLeadCreated(lead models.Lead) error {
	return p.publish(lead.Email, TypeLeadCreated, lead)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() Publisher { return noopPublisher{} }

type noopPublisher struct{}

func (noopPublisher) PublishPurchaseCompleted(models.Purchase) error { return nil }
func (noopPublisher) PublishLeadCreated(models.Lead) error           { return nil }
func (noopPublisher) Close() error                                   { return nil }
