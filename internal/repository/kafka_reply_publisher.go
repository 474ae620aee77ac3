package repository

import (
	"context"
	"fmt"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
	pkgkafka "StockCast/pkg/kafka"
)

// replyProducer is the part of *pkgkafka.Producer used for replies.
type replyProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaReplyPublisher implements ReplyPublisher for Kafka.
type KafkaReplyPublisher struct {
	producer replyProducer
}

// NewKafkaReplyPublisher creates Kafka reply publisher.
func NewKafkaReplyPublisher(producer *pkgkafka.Producer) repository.ReplyPublisher {
	return &KafkaReplyPublisher{producer: producer}
}

// PublishReply keys the message by request id so a requester consuming a
// partitioned reply topic sees its answers in order.
func (p *KafkaReplyPublisher) PublishReply(ctx context.Context, topic string, reply *models.PredictionReplyMessage) error {
	if reply == nil {
		return fmt.Errorf("nil reply")
	}
	if topic == "" {
		return fmt.Errorf("reply topic is required")
	}
	return p.producer.Publish(ctx, topic, []byte(reply.RequestID), reply)
}

// Close is a no-op: the producer is shared and closed by its owner.
func (p *KafkaReplyPublisher) Close() error {
	return nil
}
