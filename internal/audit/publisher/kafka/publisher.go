// Package kafka streams audit events to a Kafka topic for downstream
// consumers (reporting, HR tooling).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"jobeval/internal/audit"
)

// Producer is the subset of *kgo.Client the publisher needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Publisher writes one record per audit event, keyed by evaluation ID so all
// events of an evaluation land on the same partition.
type Publisher struct {
	producer Producer
	topic    string
}

// Message is the JSON value of a published record.
type Message struct {
	ID             string    `json:"id"`
	Action         string    `json:"action"`
	EvaluationID   string    `json:"evaluation_id"`
	Result         string    `json:"result"`
	ValidationMode string    `json:"validation_mode,omitempty"`
	IdentityHash   string    `json:"identity_hash,omitempty"`
	RequestID      string    `json:"request_id,omitempty"`
	Subject        string    `json:"subject,omitempty"`
	EvaluatedAt    time.Time `json:"evaluated_at"`
}

// New connects a franz-go client to brokers and produces to topic.
func New(brokers []string, topic string, opts ...kgo.Opt) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression(), kgo.NoCompression()),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return NewWithProducer(client, topic), nil
}

// NewWithProducer wraps an existing producer.
func NewWithProducer(producer Producer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// Emit produces the event and waits for the broker acknowledgement.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(toMessage(event))
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.EvaluationID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
		},
	}
	if err := p.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (p *Publisher) Close() {
	p.producer.Close()
}

func toMessage(event audit.Event) Message {
	return Message{
		ID:             event.ID.String(),
		Action:         event.Action,
		EvaluationID:   event.EvaluationID.String(),
		Result:         event.Result,
		ValidationMode: event.ValidationMode,
		IdentityHash:   event.IdentityHash,
		RequestID:      event.RequestID,
		Subject:        event.Subject,
		EvaluatedAt:    event.EvaluatedAt.UTC(),
	}
}
