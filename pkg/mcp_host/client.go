package mcp_host

import (
	"context"
	"fmt"
	"sync"

	"AgentArena/internal/config"
	"AgentArena/pkg/logger"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// Host 是一个 MCP 客户端主机。
// 它连接并管理多个 MCP 服务端，聚合所有工具，并提供统一的调用入口。
type Host struct {
	servers map[string]client.MCPClient // 服务端名称 -> 客户端
	tools   map[string]string           // 工具名称 -> 服务端名称，ListTools 时重建
	mu      sync.RWMutex
}

// NewHost 创建一个新的 Host 实例。
func NewHost() *Host {
	return &Host{
		servers: make(map[string]client.MCPClient),
		tools:   make(map[string]string),
	}
}

// Connect 根据配置连接到一个新的 MCP 服务端。
func (h *Host) Connect(ctx context.Context, cfg config.MCPServerConfig) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.servers[cfg.Name]; exists {
		return fmt.Errorf("server with name '%s' already connected", cfg.Name)
	}

	var mcpClient client.MCPClient
	var err error

	switch cfg.Transport {
	case "stdio":
		mcpClient, err = client.NewStdioMCPClient(cfg.Command, cfg.Env, cfg.Args...)
		if err != nil {
			return fmt.Errorf("failed to create stdio client: %w", err)
		}
	case "http-sse":
		mcpClient, err = client.NewSSEMCPClient(cfg.URL)
		if err != nil {
			return fmt.Errorf("failed to create sse client: %w", err)
		}
	default:
		return fmt.Errorf("unsupported transport type: '%s'", cfg.Transport)
	}

	// 初始化客户端连接
	initRequest := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "agent-arena-host",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}

	if _, err = mcpClient.Initialize(ctx, initRequest); err != nil {
		mcpClient.Close()
		return fmt.Errorf("failed to initialize client: %w", err)
	}

	h.servers[cfg.Name] = mcpClient
	return nil
}

// ConnectAll 连接配置中的全部服务端。
// 单个服务端连接失败只记录日志，不阻止其余服务端接入。
func (h *Host) ConnectAll(ctx context.Context, cfgs []config.MCPServerConfig, log *logger.Logger) {
	for _, cfg := range cfgs {
		if err := h.Connect(ctx, cfg); err != nil {
			log.WithError(err).WithPayload(map[string]interface{}{
				"server": cfg.Name,
			}).Warn("Failed to connect MCP server, skipping")
		}
	}
}

// ListTools 聚合并返回所有已连接服务端提供的工具列表，
// 同时重建工具到服务端的路由索引。支持部分失败。
func (h *Host) ListTools(ctx context.Context) ([]*mcp.Tool, map[string]error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var allTools []*mcp.Tool
	errs := make(map[string]error)
	h.tools = make(map[string]string)

	for serverName, c := range h.servers {
		toolsResult, err := c.ListTools(ctx, mcp.ListToolsRequest{})
		if err != nil {
			errs[serverName] = err
			continue // 跳过失败的服务端，继续处理其他服务端
		}

		for i := range toolsResult.Tools {
			tool := &toolsResult.Tools[i]
			allTools = append(allTools, tool)
			h.tools[tool.Name] = serverName
		}
	}

	return allTools, errs
}

// InvokeTool 根据路由索引在对应的服务端上调用指定工具。
// 索引中没有该工具时返回错误；调用前应先执行过一次 ListTools。
func (h *Host) InvokeTool(ctx context.Context, toolName string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.mu.RLock()
	serverName, ok := h.tools[toolName]
	c := h.servers[serverName]
	h.mu.RUnlock()

	if !ok || c == nil {
		return nil, fmt.Errorf("tool '%s' not provided by any connected server", toolName)
	}

	result, err := c.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: args,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call tool '%s' on server '%s': %w", toolName, serverName, err)
	}
	return result, nil
}

// CloseAll 关闭所有到服务端的连接并清理资源。
func (h *Host) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.servers {
		_ = c.Close()
	}
	h.servers = make(map[string]client.MCPClient)
	h.tools = make(map[string]string)
}
