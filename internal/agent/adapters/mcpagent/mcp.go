// Package mcpagent 提供一个通过 MCP 协议调用外部工具的 Agent 实现。
package mcpagent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"AgentArena/internal/agent"
	"AgentArena/internal/config"
	"AgentArena/internal/llm"
	"AgentArena/pkg/mcp_host"

	"github.com/mark3labs/mcp-go/mcp"
	openai "github.com/meguminnnnnnnnn/go-openai"
)

var (
	cfgMu      sync.Mutex
	cfg        config.OpenAIConfig
	host       *mcp_host.Host
	configured bool
)

// Configure 注入 OpenAI 配置和已连接的 MCP 工具主机，
// 必须在构建注册表之前调用。
func Configure(c config.OpenAIConfig, h *mcp_host.Host) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	cfg = c
	host = h
	configured = true
}

func init() {
	agent.RegisterFactory(newToolAgent)
}

// ToolAgent 将 MCP 服务端的工具暴露给模型，执行一轮函数调用循环：
// 模型决定调用哪些工具 -> 主机执行 -> 结果回填 -> 模型给出最终回答。
type ToolAgent struct {
	client       *openai.Client
	defaultModel string
	host         *mcp_host.Host
}

func newToolAgent() (agent.Adapter, error) {
	cfgMu.Lock()
	c := cfg
	h := host
	ok := configured
	cfgMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("mcpagent: 尚未注入配置")
	}
	if c.APIKey == "" {
		return nil, fmt.Errorf("mcpagent: openai apiKey 未配置")
	}
	if h == nil {
		return nil, fmt.Errorf("mcpagent: MCP 工具主机不可用")
	}

	clientConfig := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		clientConfig.BaseURL = c.BaseURL
	}
	return &ToolAgent{
		client:       openai.NewClientWithConfig(clientConfig),
		defaultModel: c.DefaultModel,
		host:         h,
	}, nil
}

func (a *ToolAgent) Framework() string { return "MCP" }
func (a *ToolAgent) Name() string { return "mcp_tools" }
func (a *ToolAgent) DisplayName() string { return "多工具协作 Agent (MCP)" }
func (a *ToolAgent) Description() string {
	return "通过 MCP 协议聚合天气、搜索等外部工具，由模型按需调用后给出回答。"
}

// Invoke 执行一轮工具调用循环。
func (a *ToolAgent) Invoke(ctx context.Context, message, model, conversationID string) (string, error) {
	if model == "" {
		model = a.defaultModel
	}
	if model == "" {
		return "", agent.NewAdapterError(agent.KindInvalidModel,
			fmt.Errorf("%w: 请求和配置均未指定模型", llm.ErrInvalidModel))
	}

	// 聚合当前所有可用工具。单个服务端失败不致命。
	mcpTools, _ := a.host.ListTools(ctx)
	tools, err := llm.ConvertMCPToolsToOpenAI(mcpTools)
	if err != nil {
		return "", agent.WrapInvokeError(err)
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: message},
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", agent.NewAdapterError(agent.KindUpstream, errors.New("模型返回了空的 choices"))
	}

	choice := resp.Choices[0].Message
	if len(choice.ToolCalls) == 0 {
		// 模型认为不需要工具，直接作答。
		return choice.Content, nil
	}

	// 执行模型请求的每一个工具调用，并将结果回填到会话中。
	messages = append(messages, choice)
	for _, call := range choice.ToolCalls {
		output, err := a.executeToolCall(ctx, call)
		if err != nil {
			// 工具失败时把错误文本交还给模型，让它自行解释，而不是中断整轮调用。
			output = fmt.Sprintf("工具 '%s' 调用失败: %v", call.Function.Name, err)
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    output,
			ToolCallID: call.ID,
		})
	}

	final, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(final.Choices) == 0 {
		return "", agent.NewAdapterError(agent.KindUpstream, errors.New("模型返回了空的 choices"))
	}

	return final.Choices[0].Message.Content, nil
}

// executeToolCall 解析参数并通过 MCP 主机执行一次工具调用。
func (a *ToolAgent) executeToolCall(ctx context.Context, call openai.ToolCall) (string, error) {
	var args map[string]interface{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return "", fmt.Errorf("解析工具参数失败: %w", err)
		}
	}

	result, err := a.host.InvokeTool(ctx, call.Function.Name, args)
	if err != nil {
		return "", err
	}
	return flattenToolResult(result), nil
}

// flattenToolResult 把工具返回的文本内容拼接为一个字符串。
func flattenToolResult(result *mcp.CallToolResult) string {
	var out string
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			out += text.Text
		}
	}
	return out
}

func classify(err error) error {
	if errors.Is(err, llm.ErrInvalidModel) {
		return agent.NewAdapterError(agent.KindInvalidModel, err)
	}
	return agent.WrapInvokeError(err)
}
