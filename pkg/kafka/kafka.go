package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
)

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

const (
	AuditTopic = "circulation-audit"

	ReportingConsumerGroup = "reporting"
)

// AuditEvent is the wire form of a circulation audit entry. The circulation
// service produces it, the reporting service consumes and persists it.
type AuditEvent struct {
	EventType  string          `json:"eventType"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	ActorID    string          `json:"actorId"`
	ActorRole  string          `json:"actorRole"`
	Success    bool            `json:"success"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume runs the consumer group loop until ctx is canceled.
func Consume(ctx context.Context, consumer sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topic string) {
	for {
		if err := consumer.Consume(ctx, []string{topic}, handler); err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}
