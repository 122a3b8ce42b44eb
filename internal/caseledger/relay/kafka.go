package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"koe/internal/caseledger/store/outbox"
)

// KafkaPublisher produces outbox entries to one topic, keyed by case so
// events of a case stay ordered within a partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafkaPublisher connects to brokers. Extra options are appended to the
// defaults.
func NewKafkaPublisher(brokers []string, topic string, opts ...kgo.Opt) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

// Publish produces e and waits for the broker acknowledgement.
func (p *KafkaPublisher) Publish(ctx context.Context, e outbox.Entry) error {
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(e.AggregateID),
		Value: e.Payload,
		Headers: []kgo.RecordHeader{
			{Key: "ce_id", Value: []byte(e.ID.String())},
			{Key: "ce_type", Value: []byte(e.EventType)},
			{Key: "aggregate_type", Value: []byte(e.AggregateType)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce %s: %w", e.EventType, err)
	}
	return nil
}

// EnsureTopic creates the topic when it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopic(ctx, partitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", p.topic, resp.Err)
	}
	return nil
}

// Ping checks that at least one broker is reachable.
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
