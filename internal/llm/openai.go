package llm

import (
	"AgentArena/internal/config"
	"context"
	"fmt"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAI 是一个用于 OpenAI API 的 LLM 客户端。
type OpenAI struct {
	client       *openai.Client // OpenAI 客户端实例。
	defaultModel string         // 请求未指定模型时使用的模型名称。
}

// NewOpenAI 创建一个新的 OpenAI 客户端。
// cfg.BaseURL 不为空时指向兼容接口（如自建网关）。
func NewOpenAI(cfg config.OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: apiKey 未配置")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client:       openai.NewClientWithConfig(clientConfig),
		defaultModel: cfg.DefaultModel,
	}, nil
}

// GenerateContent 使用 OpenAI API 生成内容。
func (o *OpenAI) GenerateContent(ctx context.Context, req *Request) (string, error) {
	model, err := o.resolveModel(req.Model)
	if err != nil {
		return "", err
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(req),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai 返回了空的 choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// resolveModel 决定本次请求实际使用的模型。
func (o *OpenAI) resolveModel(model string) (string, error) {
	if model == "" {
		model = o.defaultModel
	}
	if model == "" {
		return "", fmt.Errorf("%w: 请求和配置均未指定模型", ErrInvalidModel)
	}
	return model, nil
}

// toOpenAIMessages 将我们的内部消息格式转换为 OpenAI 格式。
func toOpenAIMessages(req *Request) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return messages
}
