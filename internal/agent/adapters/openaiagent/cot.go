package openaiagent

import (
	"context"
	"fmt"

	"AgentArena/internal/agent"
	"AgentArena/internal/llm"
	"AgentArena/internal/models"
)

// CoTAgent 是一个两段式思维链 Agent：
// 第一段让模型拆解问题并逐步推理，第二段基于推理过程产出最终回答。
type CoTAgent struct {
	client *llm.OpenAI
}

func newCoTAgent() (agent.Adapter, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	return &CoTAgent{client: client}, nil
}

func (a *CoTAgent) Framework() string { return "OpenAI" }
func (a *CoTAgent) Name() string { return "openai_cot" }
func (a *CoTAgent) DisplayName() string { return "思维链推理 Agent (OpenAI)" }
func (a *CoTAgent) Description() string {
	return "先让模型显式地逐步推理，再基于推理过程生成最终回答，适合逻辑和计算类问题。"
}

// Invoke 执行两段式推理。
func (a *CoTAgent) Invoke(ctx context.Context, message, model, conversationID string) (string, error) {
	// 第一段：生成推理过程。
	reasoning, err := a.client.GenerateContent(ctx, &llm.Request{
		Model: model,
		Messages: []models.ChatMessage{
			{Role: models.SpeakerUser, Content: fmt.Sprintf(
				"请针对下面的问题一步一步地推理，列出每一步的思考过程，暂时不要给出最终结论。\n\n问题: %s", message)},
		},
	})
	if err != nil {
		return "", classify(err)
	}

	// 第二段：基于推理过程合成最终回答。
	answer, err := a.client.GenerateContent(ctx, &llm.Request{
		Model: model,
		Messages: []models.ChatMessage{
			{Role: models.SpeakerUser, Content: fmt.Sprintf(
				"问题: %s\n\n下面是对该问题的逐步推理过程:\n%s\n\n请基于以上推理，给出简洁、直接的最终回答。", message, reasoning)},
		},
	})
	if err != nil {
		return "", classify(err)
	}

	return answer, nil
}
