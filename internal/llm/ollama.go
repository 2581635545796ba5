package llm

import (
	"AgentArena/internal/config"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	olla "github.com/ollama/ollama/api"
)

// Ollama 是一个用于本地 Ollama 服务的 LLM 客户端。
type Ollama struct {
	client       *olla.Client // Ollama 客户端实例。
	defaultModel string       // 请求未指定模型时使用的模型名称。
}

// NewOllama 创建一个新的 Ollama 客户端。
// cfg.BaseURL 为空时默认为 "http://localhost:11434"。
func NewOllama(cfg config.OllamaConfig) (*Ollama, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	// 本地模型生成较慢，使用较长的超时。
	hc := &http.Client{
		Timeout: 120 * time.Second,
	}

	return &Ollama{
		client:       olla.NewClient(parsedURL, hc),
		defaultModel: cfg.DefaultModel,
	}, nil
}

// GenerateContent 使用 Ollama API 生成内容。
func (o *Ollama) GenerateContent(ctx context.Context, req *Request) (string, error) {
	model := req.Model
	if model == "" {
		model = o.defaultModel
	}
	if model == "" {
		return "", fmt.Errorf("%w: 请求和配置均未指定模型", ErrInvalidModel)
	}

	var result strings.Builder
	stream := false

	// Ollama 的会话接口直接接受消息列表。
	err := o.client.Chat(ctx, &olla.ChatRequest{
		Model:    model,
		Messages: toOllamaMessages(req),
		Stream:   &stream,
	}, func(resp olla.ChatResponse) error {
		result.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to chat with ollama: %w", err)
	}

	return result.String(), nil
}

// toOllamaMessages 将内部消息格式转换为 Ollama 格式。
func toOllamaMessages(req *Request) []olla.Message {
	var messages []olla.Message
	for _, m := range req.Messages {
		messages = append(messages, olla.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return messages
}
