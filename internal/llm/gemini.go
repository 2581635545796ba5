package llm

import (
	"AgentArena/internal/config"
	"AgentArena/internal/models"
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini 是一个实现了 LLM 接口的结构体，用于与 Gemini API 交互。
// 客户端在启动时创建一次，具体的生成模型按请求选择。
type Gemini struct {
	client       *genai.Client // GenAI 客户端实例。
	defaultModel string        // 请求未指定模型时使用的模型名称。
}

// NewGemini 创建一个新的 Gemini 客户端。
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: apiKey 未配置")
	}
	// 使用 API 密钥创建 GenAI 客户端。
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, defaultModel: cfg.DefaultModel}, nil
}

// GenerateContent 向 Gemini API 发送请求并返回响应文本。
// 历史消息注入聊天会话，最后一条消息作为本次输入发送。
func (g *Gemini) GenerateContent(ctx context.Context, req *Request) (string, error) {
	model := req.Model
	if model == "" {
		model = g.defaultModel
	}
	if model == "" {
		return "", fmt.Errorf("%w: 请求和配置均未指定模型", ErrInvalidModel)
	}
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("gemini: 请求不包含任何消息")
	}

	generativeModel := g.client.GenerativeModel(model)
	session := generativeModel.StartChat()

	// 除最后一条外全部作为会话历史。
	last := req.Messages[len(req.Messages)-1]
	for _, m := range req.Messages[:len(req.Messages)-1] {
		session.History = append(session.History, &genai.Content{
			Role:  toGeminiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("failed to send message to gemini: %w", err)
	}

	return extractGeminiText(resp)
}

// toGeminiRole 将内部角色映射为 Gemini 的会话角色。
func toGeminiRole(role models.Speaker) string {
	if role == models.SpeakerAssistant {
		return "model"
	}
	return "user"
}

// extractGeminiText 从响应中拼接所有文本 part。
func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini 返回了空的候选结果")
	}
	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	return out, nil
}
