package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
app:
  name: "AgentArena"
  version: "1.0.0"
  environment: "development"

server:
  address: ":8000"

logger:
  level: "debug"

auth:
  jwtSecret: "test-secret"
  tokenTTL: 3600

llm:
  openai:
    apiKey: "sk-test"
    baseURL: "https://api.example.com/v1"
    defaultModel: "gpt-4o-mini"
  gemini:
    apiKey: "gm-test"
    defaultModel: "gemini-2.0-flash"
  ollama:
    baseURL: "http://localhost:11434"
    defaultModel: "qwen3:8b"

mcp:
  servers:
    - name: "weather"
      transport: "stdio"
      command: "./weather_mcp_server"
      args: ["-transport", "stdio"]
    - name: "search"
      transport: "http-sse"
      url: "http://localhost:8006/sse"

chat:
  historyWindow: 10
  invokeTimeout: "300s"

models:
  - "gpt-4o-mini"
  - "gemini-2.0-flash"

databases:
  mongodb:
    address: "mongodb://localhost:27017"
    database: "agent_arena"
  redis:
    address: "localhost:6379"
    db: 0
  kafka:
    enabled: true
    brokers: ["localhost:9092"]

middleware:
  rateLimiter:
    enabled: true
    rate: 5
    burst: 10
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入临时配置文件失败: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig 返回错误: %v", err)
	}

	if cfg.App.Name != "AgentArena" {
		t.Errorf("app.name = %q, 期望 %q", cfg.App.Name, "AgentArena")
	}
	if cfg.Server.Address != ":8000" {
		t.Errorf("server.address = %q, 期望 %q", cfg.Server.Address, ":8000")
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("logger.level = %q, 期望 %q", cfg.Logger.Level, "debug")
	}
	if cfg.Auth.JwtSecret != "test-secret" || cfg.Auth.TokenTTL != 3600 {
		t.Errorf("auth 配置解析错误: %+v", cfg.Auth)
	}
	if cfg.LLM.OpenAI.APIKey != "sk-test" || cfg.LLM.OpenAI.BaseURL != "https://api.example.com/v1" {
		t.Errorf("llm.openai 配置解析错误: %+v", cfg.LLM.OpenAI)
	}
	if cfg.LLM.Gemini.DefaultModel != "gemini-2.0-flash" {
		t.Errorf("llm.gemini.defaultModel = %q", cfg.LLM.Gemini.DefaultModel)
	}
	if cfg.LLM.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("llm.ollama.baseURL = %q", cfg.LLM.Ollama.BaseURL)
	}

	if len(cfg.MCP.Servers) != 2 {
		t.Fatalf("mcp.servers 数量 = %d, 期望 2", len(cfg.MCP.Servers))
	}
	if cfg.MCP.Servers[0].Transport != "stdio" || cfg.MCP.Servers[0].Command != "./weather_mcp_server" {
		t.Errorf("mcp.servers[0] 解析错误: %+v", cfg.MCP.Servers[0])
	}
	if cfg.MCP.Servers[1].Transport != "http-sse" || cfg.MCP.Servers[1].URL != "http://localhost:8006/sse" {
		t.Errorf("mcp.servers[1] 解析错误: %+v", cfg.MCP.Servers[1])
	}

	if cfg.Chat.HistoryWindow != 10 || cfg.Chat.InvokeTimeout != "300s" {
		t.Errorf("chat 配置解析错误: %+v", cfg.Chat)
	}
	if len(cfg.Models) != 2 || cfg.Models[0] != "gpt-4o-mini" {
		t.Errorf("models 解析错误: %v", cfg.Models)
	}

	if cfg.Databases.MongoDB.Database != "agent_arena" {
		t.Errorf("databases.mongodb.database = %q", cfg.Databases.MongoDB.Database)
	}
	if !cfg.Databases.Kafka.Enabled || len(cfg.Databases.Kafka.Brokers) != 1 {
		t.Errorf("databases.kafka 解析错误: %+v", cfg.Databases.Kafka)
	}

	if !cfg.Middleware.RateLimiter.Enabled || cfg.Middleware.RateLimiter.Rate != 5 || cfg.Middleware.RateLimiter.Burst != 10 {
		t.Errorf("middleware.rateLimiter 解析错误: %+v", cfg.Middleware.RateLimiter)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "no-such.yaml")); err == nil {
		t.Fatal("读取不存在的文件应当返回错误")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	if _, err := LoadConfig(writeTempConfig(t, "app: [unclosed")); err == nil {
		t.Fatal("解析非法 YAML 应当返回错误")
	}
}
