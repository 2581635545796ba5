package store

import (
	"AgentArena/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// HistoryCache 在 Redis 中缓存每个会话最近的消息窗口。
// 历史接口的快路径从这里读取，Mongo 只在缓存未命中时兜底。
type HistoryCache struct {
	client *redis.Client
	window int           // 缓存的最近消息条数
	ttl    time.Duration // 缓存键的过期时间
}

// NewHistoryCache 创建一个新的 HistoryCache。
func NewHistoryCache(client *redis.Client, window int) *HistoryCache {
	if window <= 0 {
		window = 10
	}
	return &HistoryCache{
		client: client,
		window: window,
		ttl:    24 * time.Hour,
	}
}

func historyKey(conversationID string) string {
	return "chat:history:" + conversationID
}

// Append 将若干消息追加到会话的缓存窗口，并裁剪到配置的窗口大小。
func (c *HistoryCache) Append(ctx context.Context, conversationID string, messages []models.ChatMessage) error {
	key := historyKey(conversationID)

	values := make([]interface{}, 0, len(messages))
	for _, m := range messages {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal chat message: %w", err)
		}
		values = append(values, data)
	}

	pipe := c.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-c.window), -1)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append history to redis: %w", err)
	}
	return nil
}

// Recent 返回会话缓存窗口中的消息，缓存为空时返回 nil。
func (c *HistoryCache) Recent(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	raw, err := c.client.LRange(ctx, historyKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history from redis: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	messages := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var m models.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}
