package kafka

import (
	"github.com/IBM/sarama"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

const (
	BorrowingEventsTopic = "borrowing-events"
)

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
