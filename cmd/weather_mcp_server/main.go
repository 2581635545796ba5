package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// 一个最小的天气 MCP 服务端，用于演示工具型 Agent 的端到端链路。
// 返回固定格式的占位结果，不依赖任何外部天气 API。

func main() {
	// Define command-line flags
	transport := flag.String("transport", "stdio", "Transport method: stdio or sse")
	port := flag.String("port", "8005", "Port for HTTP-based transports")
	flag.Parse()

	// Create a new MCP server
	s := server.NewMCPServer(
		"weather-server",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	// Add tool
	tool := mcp.NewTool("get_weather",
		mcp.WithDescription("Get weather for a location"),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("The location to get the weather for"),
		),
	)
	s.AddTool(tool, getWeather)

	// Start server based on transport selection
	switch *transport {
	case "sse":
		log.Printf("Starting Weather MCP server with SSE transport on port %s", *port)
		sseServer := server.NewSSEServer(s)
		if err := sseServer.Start(":" + *port); err != nil {
			log.Fatalf("SSE server error: %v", err)
		}
	case "stdio":
		log.Println("Starting Weather MCP server with STDIO transport")
		if err := server.ServeStdio(s); err != nil {
			log.Fatalf("STDIO server error: %v", err)
		}
	default:
		log.Fatalf("Unknown transport: %s. Use stdio or sse", *transport)
	}
}

func getWeather(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	location, err := request.RequireString("location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("It's always sunny in %s.", location)), nil
}
