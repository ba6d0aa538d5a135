package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"hotelops/internal/app/policies"
)

type Producer struct {
	sync sarama.SyncProducer
}

func NewProducer(brokers []string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return &Producer{sync: sync}, nil
}

func (p *Producer) Publish(_ context.Context, topic, key string, payload []byte, headers map[string]string) error {
	hs := make([]sarama.RecordHeader, 0, len(headers))
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(payload),
		Headers: hs,
	}
	_, _, err := p.sync.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

type publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error
}

// EventPublisher wraps domain payloads in CloudEvents envelopes and routes them
// to "<prefix><aggregate>.events.v1".
type EventPublisher struct {
	Producer    publisher
	TopicPrefix string
	// Source identifies this instance so its consumer can skip its own events.
	Source string
	Now    func() time.Time
}

func (p EventPublisher) PublishEvent(ctx context.Context, name, key string, data any) error {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	env, err := newEnvelope(p.Source, name, data, now())
	if err != nil {
		return fmt.Errorf("kafka encode %s: %w", name, err)
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("kafka encode %s: %w", name, err)
	}
	headers := map[string]string{
		headerContentType: cloudEventsJSON,
		headerSource:      p.Source,
	}
	topic := TopicFor(p.TopicPrefix, name)
	if err := p.Producer.Publish(ctx, topic, key, payload, headers); err != nil {
		return fmt.Errorf("kafka publish %s to %s: %w", name, topic, err)
	}
	return nil
}

var _ policies.EventPublisher = EventPublisher{}
