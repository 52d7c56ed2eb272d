package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

// NewGroup builds the consumer group used to follow the payment gateway
// stream. Offsets start at newest: missed payment events are recovered by
// the gateway's own replay, not by rewinding here.
func NewGroup(brokers []string, groupID string) (sarama.ConsumerGroup, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = "commerce-api"
	cfg.Version = sarama.V2_6_0_0
	cfg.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRange
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Net.DialTimeout = 5 * time.Second
	return sarama.NewConsumerGroup(brokers, groupID, cfg)
}
