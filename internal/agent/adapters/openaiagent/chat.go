// Package openaiagent 提供基于 OpenAI 接口的 Agent 实现。
package openaiagent

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
	cfg        config.OpenAIConfig
	configured bool
)

// Configure 注入 OpenAI 配置，必须在构建注册表之前调用。
func Configure(c config.OpenAIConfig) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	cfg = c
	configured = true
}

func newClient() (*llm.OpenAI, error) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	if !configured {
		return nil, fmt.Errorf("openaiagent: 尚未注入配置")
	}
	return llm.NewOpenAI(cfg)
}

func init() {
	agent.RegisterFactory(newChatAgent)
	agent.RegisterFactory(newCoTAgent)
}

// ChatAgent 是最直接的对话 Agent：一次请求一次补全。
type ChatAgent struct {
	client *llm.OpenAI
}

func newChatAgent() (agent.Adapter, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	return &ChatAgent{client: client}, nil
}

func (a *ChatAgent) Framework() string { return "OpenAI" }
func (a *ChatAgent) Name() string { return "openai_chat" }
func (a *ChatAgent) DisplayName() string { return "基础对话 Agent (OpenAI)" }
func (a *ChatAgent) Description() string {
	return "直接调用 OpenAI 对话补全接口，不带任何工具或推理增强。"
}

// Invoke 执行一次对话补全。
func (a *ChatAgent) Invoke(ctx context.Context, message, model, conversationID string) (string, error) {
	resp, err := a.client.GenerateContent(ctx, &llm.Request{
		Model: model,
		Messages: []models.ChatMessage{
			{Role: models.SpeakerUser, Content: message},
		},
	})
	if err != nil {
		return "", classify(err)
	}
	return resp, nil
}

// classify 将底层错误归类为 AdapterError。
func classify(err error) error {
	if errors.Is(err, llm.ErrInvalidModel) {
		return agent.NewAdapterError(agent.KindInvalidModel, err)
	}
	return agent.WrapInvokeError(err)
}
