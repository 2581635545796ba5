// Package ollamaagent 提供基于本地 Ollama 服务的 Agent 实现。
package ollamaagent

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
	cfg        config.OllamaConfig
	configured bool
)

// Configure 注入 Ollama 配置，必须在构建注册表之前调用。
func Configure(c config.OllamaConfig) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	cfg = c
	configured = true
}

func init() {
	agent.RegisterFactory(newLocalAgent)
}

// LocalAgent 调用本地 Ollama 服务的 Agent，用于和云端模型做同题对比。
type LocalAgent struct {
	client *llm.Ollama
}

func newLocalAgent() (agent.Adapter, error) {
	cfgMu.Lock()
	c := cfg
	ok := configured
	cfgMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("ollamaagent: 尚未注入配置")
	}

	client, err := llm.NewOllama(c)
	if err != nil {
		return nil, err
	}
	return &LocalAgent{client: client}, nil
}

func (a *LocalAgent) Framework() string { return "Ollama" }
func (a *LocalAgent) Name() string { return "ollama_local" }
func (a *LocalAgent) DisplayName() string { return "本地模型 Agent (Ollama)" }
func (a *LocalAgent) Description() string {
	return "调用本地 Ollama 服务上的开源模型，无需任何云端 API 密钥。"
}

// Invoke 执行一次本地模型调用。
func (a *LocalAgent) Invoke(ctx context.Context, message, model, conversationID string) (string, error) {
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
