// Package adapters 汇总所有内置的 Agent 实现。
// 导入本包会触发各 adapter 包的 init() 自注册；
// 包初始化顺序在一次构建内是固定的，因此发现顺序稳定。
package adapters

import (
	"AgentArena/internal/agent/adapters/geminiagent"
	"AgentArena/internal/agent/adapters/mcpagent"
	"AgentArena/internal/agent/adapters/ollamaagent"
	"AgentArena/internal/agent/adapters/openaiagent"
	"AgentArena/internal/config"
	"AgentArena/pkg/mcp_host"
)

// Setup 在构建注册表之前向各 adapter 包注入配置和共享依赖。
func Setup(cfg *config.AppConfig, host *mcp_host.Host) {
	openaiagent.Configure(cfg.LLM.OpenAI)
	geminiagent.Configure(cfg.LLM.Gemini)
	ollamaagent.Configure(cfg.LLM.Ollama)
	mcpagent.Configure(cfg.LLM.OpenAI, host)
}
