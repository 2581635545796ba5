package publisher

import (
	"AgentArena/internal/config"
	"AgentArena/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const ChatEventTopic = "chat_events"

// ChatEventPublisher 封装了向 Kafka 发送对话审计事件的逻辑。
type ChatEventPublisher struct {
	writer *kafka.Writer
}

// NewChatEventPublisher 创建一个新的 ChatEventPublisher 实例。
func NewChatEventPublisher(cfg config.KafkaConfig) *ChatEventPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        ChatEventTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	})
	return &ChatEventPublisher{writer: writer}
}

// Publish 将 ChatEvent 序列化为 JSON 并发送到 Kafka。
// 消息按会话 ID 分区，同一会话的事件保持有序。
func (p *ChatEventPublisher) Publish(ctx context.Context, event *models.ChatEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal chat event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ConversationID),
		Value: jsonData,
	})
	if err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close 关闭底层的 writer 连接。
func (p *ChatEventPublisher) Close() error {
	return p.writer.Close()
}
