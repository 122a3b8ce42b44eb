//go:build integration

package relay_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"koe/internal/caseledger/relay"
	"koe/internal/caseledger/store/outbox"
	"koe/pkg/testutil/containers"
)

type KafkaSuite struct {
	suite.Suite
	brokers []string
}

func TestKafkaSuite(t *testing.T) {
	suite.Run(t, new(KafkaSuite))
}

func (s *KafkaSuite) SetupSuite() {
	s.brokers = containers.GetManager().GetRedpanda(s.T()).Brokers
}

func (s *KafkaSuite) TestRelayToTopic() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "koe.test." + uuid.NewString()[:8]
	pub, err := relay.NewKafkaPublisher(s.brokers, topic)
	s.Require().NoError(err)
	defer pub.Close()
	s.Require().NoError(pub.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(pub.EnsureTopic(ctx, 1, 1), "existing topic is accepted")

	store := outbox.NewInMemory()
	for _, caseID := range []string{"case-1", "case-1", "case-2"} {
		s.Require().NoError(store.Append(ctx, outbox.Entry{
			ID:            uuid.New(),
			AggregateType: "claim",
			AggregateID:   caseID,
			EventType:     "koe.deadline.claim_sent",
			Payload:       []byte(`{"case":"` + caseID + `"}`),
		}))
	}

	n, err := relay.New(store, pub).RunOnce(ctx)
	s.Require().NoError(err)
	s.Equal(3, n)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var records []*kgo.Record
	for len(records) < 3 {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err())
		fetches.EachRecord(func(r *kgo.Record) { records = append(records, r) })
	}
	s.Equal("case-1", string(records[0].Key))
	s.Equal("case-1", string(records[1].Key))
	s.Equal(`{"case":"case-1"}`, string(records[0].Value))
}
