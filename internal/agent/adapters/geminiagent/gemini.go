// Package geminiagent 提供基于 Google Gemini 的 Agent 实现。
package geminiagent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"AgentArena/internal/agent"
	"AgentArena/internal/config"
	"AgentArena/internal/llm"
	"AgentArena/internal/models"
)

var (
	cfgMu      sync.Mutex
	cfg        config.GeminiConfig
	configured bool
)

// Configure 注入 Gemini 配置，必须在构建注册表之前调用。
func Configure(c config.GeminiConfig) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	cfg = c
	configured = true
}

func init() {
	agent.RegisterFactory(newChatAgent)
}

// ChatAgent 直接调用 Gemini 会话接口的 Agent。
type ChatAgent struct {
	client *llm.Gemini
}

func newChatAgent() (agent.Adapter, error) {
	cfgMu.Lock()
	c := cfg
	ok := configured
	cfgMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("geminiagent: 尚未注入配置")
	}

	client, err := llm.NewGemini(context.Background(), c)
	if err != nil {
		return nil, err
	}
	return &ChatAgent{client: client}, nil
}

func (a *ChatAgent) Framework() string { return "Gemini" }
func (a *ChatAgent) Name() string { return "gemini_chat" }
func (a *ChatAgent) DisplayName() string { return "基础对话 Agent (Gemini)" }
func (a *ChatAgent) Description() string {
	return "直接调用 Google Gemini 会话接口的对照组 Agent。"
}

// Invoke 执行一次 Gemini 会话调用。
func (a *ChatAgent) Invoke(ctx context.Context, message, model, conversationID string) (string, error) {
	resp, err := a.client.GenerateContent(ctx, &llm.Request{
		Model: model,
		Messages: []models.ChatMessage{
			{Role: models.SpeakerUser, Content: message},
		},
	})
	if err != nil {
		if errors.Is(err, llm.ErrInvalidModel) {
			return "", agent.NewAdapterError(agent.KindInvalidModel, err)
		}
		return "", agent.WrapInvokeError(err)
	}
	return resp, nil
}
