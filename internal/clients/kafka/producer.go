package kafka

import (
	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-ledger/internal/logger"
)

type producerConfig interface {
	Brokers() []string
	EventsTopic() string
}

// Producer publishes ledger events keyed by username, so events of one account stay
// in one partition.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg producerConfig) (*Producer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers(), config)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create kafka producer")
	}
	return &Producer{
		producer: producer,
		topic:    cfg.EventsTopic(),
	}, nil
}

func (p *Producer) ProduceMessage(key string, message []byte) error {
	_, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(message),
	})
	return errors.Wrap(err, "produce message")
}

func (p *Producer) Close() {
	err := p.producer.Close()
	if err != nil {
		logger.Error("failed to close producer", zap.Error(err))
	}
}
