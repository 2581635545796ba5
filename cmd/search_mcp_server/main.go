package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	httpclient "AgentArena/pkg/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// 一个联网搜索 MCP 服务端，封装 Tavily 搜索 API。
// API 密钥通过环境变量 TAVILY_API_KEY 注入。

type searchServer struct {
	client *httpclient.Client
	apiKey string
}

// tavilyRequest 是 Tavily 搜索接口的请求体。
type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// tavilyResponse 是 Tavily 搜索接口的响应体（只取需要的字段）。
type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func main() {
	// Define command-line flags
	transport := flag.String("transport", "stdio", "Transport method: stdio or sse")
	port := flag.String("port", "8006", "Port for HTTP-based transports")
	flag.Parse()

	apiKey := os.Getenv("TAVILY_API_KEY")
	if apiKey == "" {
		log.Fatal("TAVILY_API_KEY is not set")
	}

	ss := &searchServer{
		client: httpclient.NewClient(0),
		apiKey: apiKey,
	}

	// Create a new MCP server
	s := server.NewMCPServer(
		"search-server",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	// Add tool
	tool := mcp.NewTool("web_search",
		mcp.WithDescription("当你遇到不知道的问题时（比如一些实时问题），使用搜索工具并返回结果"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query"),
		),
	)
	s.AddTool(tool, ss.search)

	// Start server based on transport selection
	switch *transport {
	case "sse":
		log.Printf("Starting Search MCP server with SSE transport on port %s", *port)
		sseServer := server.NewSSEServer(s)
		if err := sseServer.Start(":" + *port); err != nil {
			log.Fatalf("SSE server error: %v", err)
		}
	case "stdio":
		log.Println("Starting Search MCP server with STDIO transport")
		if err := server.ServeStdio(s); err != nil {
			log.Fatalf("STDIO server error: %v", err)
		}
	default:
		log.Fatalf("Unknown transport: %s. Use stdio or sse", *transport)
	}
}

func (ss *searchServer) search(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var resp tavilyResponse
	err = ss.client.PostJSON(ctx, tavilyEndpoint, &tavilyRequest{
		APIKey:     ss.apiKey,
		Query:      query,
		MaxResults: 5,
	}, &resp)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	var sb strings.Builder
	if resp.Answer != "" {
		sb.WriteString(resp.Answer)
		sb.WriteString("\n\n")
	}
	for _, r := range resp.Results {
		sb.WriteString(fmt.Sprintf("- %s (%s)\n  %s\n", r.Title, r.URL, r.Content))
	}
	if sb.Len() == 0 {
		return mcp.NewToolResultText("没有找到相关结果。"), nil
	}

	return mcp.NewToolResultText(sb.String()), nil
}
