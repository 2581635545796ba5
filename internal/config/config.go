package config

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// ServerConfig 定义了 HTTP 服务的监听配置。
type ServerConfig struct {
	Address string `yaml:"address"` // 监听地址 (例如: ":8000")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// AuthConfig 用于配置认证方法和相关设置。
type AuthConfig struct {
	JwtSecret string `yaml:"jwtSecret"` // JWT 密钥
	TokenTTL  int    `yaml:"tokenTTL"`  // JWT 令牌的有效期（秒）
}

// OpenAIConfig 包含了 OpenAI 兼容接口的配置。
type OpenAIConfig struct {
	APIKey       string `yaml:"apiKey"`       // OpenAI API 密钥
	BaseURL      string `yaml:"baseURL"`      // 可选的自定义接口地址
	DefaultModel string `yaml:"defaultModel"` // 请求未指定模型时的默认模型
}

// GeminiConfig 包含了 Gemini 模型的配置。
type GeminiConfig struct {
	APIKey       string `yaml:"apiKey"`       // Gemini API 密钥
	DefaultModel string `yaml:"defaultModel"` // 默认模型名称
}

// OllamaConfig 包含了本地 Ollama 服务的配置。
type OllamaConfig struct {
	BaseURL      string `yaml:"baseURL"`      // Ollama 服务地址 (例如: "http://localhost:11434")
	DefaultModel string `yaml:"defaultModel"` // 默认模型名称
}

// LLMConfig 包含了不同 LLM 提供商的配置。
type LLMConfig struct {
	OpenAI OpenAIConfig `yaml:"openai"` // OpenAI 配置
	Gemini GeminiConfig `yaml:"gemini"` // Gemini 配置
	Ollama OllamaConfig `yaml:"ollama"` // Ollama 配置
}

// MCPServerConfig 定义了一个要连接的 MCP 工具服务端。
type MCPServerConfig struct {
	Name      string   `yaml:"name"`      // 服务端名称，用于日志和去重
	Transport string   `yaml:"transport"` // 传输方式: "stdio" 或 "http-sse"
	Command   string   `yaml:"command"`   // stdio 模式下的启动命令
	Args      []string `yaml:"args"`      // 启动命令参数
	URL       string   `yaml:"url"`       // http-sse 模式下的服务地址
	Env       []string `yaml:"env"`       // 传递给子进程的环境变量
}

// MCPConfig 包含了 MCP 工具主机的配置。
type MCPConfig struct {
	Servers []MCPServerConfig `yaml:"servers"` // 要连接的 MCP 服务端列表
}

// ChatConfig 定义了对话调度的行为。
type ChatConfig struct {
	HistoryWindow int    `yaml:"historyWindow"` // 历史接口缓存并返回的最近消息条数
	InvokeTimeout string `yaml:"invokeTimeout"` // 单次 Invoke 的超时时间 (例如: "300s")
}

// MongoConfig 定义了 MongoDB 数据库的连接配置。
type MongoConfig struct {
	Address  string `yaml:"address"`  // MongoDB 服务器地址
	Username string `yaml:"username"` // 用户名
	Password string `yaml:"password"` // 密码
	Database string `yaml:"database"` // 数据库名称
}

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"` // 是否启用对话事件发布
	Brokers []string `yaml:"brokers"` // Kafka Broker 地址列表
}

// DatabaseConfigs 包含所有外部存储的配置。
type DatabaseConfigs struct {
	MongoDB MongoConfig `yaml:"mongodb"` // MongoDB 数据库配置
	Redis   RedisConfig `yaml:"redis"`   // Redis 数据库配置
	Kafka   KafkaConfig `yaml:"kafka"`   // Kafka 消息队列配置
}

// RateLimiterConfig 定义了 /chat 接口限流器的配置。
type RateLimiterConfig struct {
	Enabled bool    `yaml:"enabled"` // 是否启用限流
	Rate    float64 `yaml:"rate"`    // 每秒补充的令牌数
	Burst   int     `yaml:"burst"`   // 突发容量
}

// MiddlewareConfig 包含所有中间件的配置。
type MiddlewareConfig struct {
	RateLimiter RateLimiterConfig `yaml:"rateLimiter"`
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App        AppInfo          `yaml:"app"`        // 应用程序信息
	Server     ServerConfig     `yaml:"server"`     // HTTP 服务配置
	Logger     LoggerConfig     `yaml:"logger"`     // 日志记录器配置
	Auth       AuthConfig       `yaml:"auth"`       // 认证配置
	LLM        LLMConfig        `yaml:"llm"`        // LLM 配置部分
	MCP        MCPConfig        `yaml:"mcp"`        // MCP 工具主机配置
	Chat       ChatConfig       `yaml:"chat"`       // 对话调度配置
	Models     []string         `yaml:"models"`     // 对外公布的模型目录
	Databases  DatabaseConfigs  `yaml:"databases"`  // 外部存储配置
	Middleware MiddlewareConfig `yaml:"middleware"` // 中间件配置
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件。
//
// 参数:
//
//	path: YAML 配置文件的路径。
//
// 返回值:
//
//	*AppConfig: 解析后的应用程序配置结构体。
//	error: 如果文件读取或解析失败，则返回错误。
func LoadConfig(path string) (*AppConfig, error) {
	// 读取 YAML 文件内容。
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig
	// 将 YAML 内容解析到 cfg 结构体中。
	err = yaml.Unmarshal(yamlFile, &cfg)
	if err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	return &cfg, nil
}
