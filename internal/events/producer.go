package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes order lifecycle events. A nil *Producer is a valid
// no-op, so the service runs without a broker in development.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers, topic string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer, logger: logger}
}

func (p *Producer) publish(key string, payload any) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
}

func (p *Producer) PublishOrderCreated(event OrderCreatedEvent) error {
	err := p.publish(fmt.Sprintf("ORDER#%d", event.OrderID), event)
	if err == nil && p != nil {
		p.logger.Info("order created event published",
			zap.String("event_id", event.EventID),
			zap.Int64("order_id", event.OrderID))
	}
	return err
}

func (p *Producer) PublishStatusChanged(event OrderStatusChangedEvent) error {
	err := p.publish(fmt.Sprintf("ORDER#%d", event.OrderID), event)
	if err == nil && p != nil {
		p.logger.Info("status change event published",
			zap.String("event_id", event.EventID),
			zap.Int64("order_id", event.OrderID),
			zap.String("from", string(event.From)),
			zap.String("to", string(event.To)))
	}
	return err
}

func (p *Producer) PublishLowStock(event LowStockEvent) error {
	return p.publish(fmt.Sprintf("PRODUCT#%d", event.ProductID), event)
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
