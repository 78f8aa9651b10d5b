package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/inventory"
	"github.com/segmentio/kafka-go"
)

const ledgerTopic = "inventory-ledger"

// KafkaSink publishes ledger entries to Kafka for the ops/reconciliation
// tooling downstream.
type KafkaSink struct {
	timeout time.Duration
	writer  *kafka.Writer
}

func NewKafkaSink(brokers ...string) *KafkaSink {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  ledgerTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaSink{timeout: 5 * time.Second, writer: w}
}

func (s *KafkaSink) Append(ctx context.Context, entry inventory.LedgerEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err = s.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(entry.SKU),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish ledger entry: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
