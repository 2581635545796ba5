package llm

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	openai "github.com/meguminnnnnnnnn/go-openai"
)

// ConvertMCPToolsToOpenAI 将 mcp_host 汇总的工具列表转换为
// OpenAI Go SDK 所需的 FunctionDefinition 列表。
func ConvertMCPToolsToOpenAI(tools []*mcp.Tool) ([]openai.Tool, error) {
	var openAITools []openai.Tool

	for _, tool := range tools {
		params, err := convertMCPParamsToOpenAISchema(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("error converting parameters for tool '%s': %w", tool.Name, err)
		}

		openAITools = append(openAITools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  params,
			},
		})
	}

	return openAITools, nil
}

// convertMCPParamsToOpenAISchema 将 mcp.ToolInputSchema 转换为 OpenAI 所需的格式。
func convertMCPParamsToOpenAISchema(mcpParams mcp.ToolInputSchema) (map[string]interface{}, error) {
	if len(mcpParams.Properties) == 0 {
		return nil, nil
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": mcpParams.Properties,
		"required":   mcpParams.Required,
	}, nil
}
