package agent

import "context"

// Adapter 定义了所有被接入平台的 Agent 实现必须满足的统一能力契约。
// 每个 Adapter 包装一个第三方 Agent 框架，对外只暴露元数据和一个 Invoke 入口。
type Adapter interface {
	// Framework 返回 Adapter 所属的框架名称, e.g., "OpenAI"。
	Framework() string
	// Name 返回 Adapter 的唯一技术名称 (用于 API 调用), e.g., "openai_chat"。
	Name() string
	// DisplayName 返回在 UI 中显示的友好名称。
	DisplayName() string
	// Description 返回 Adapter 的简短描述，可用作帮助提示。
	Description() string
	// Invoke 执行一次对话调用。调用期间可能阻塞等待上游模型，
	// 失败时返回 *AdapterError。
	Invoke(ctx context.Context, message, model, conversationID string) (string, error)
}

// Descriptor 包含了描述一个 Adapter 身份所需的所有信息。
// 身份 = (Framework, Name)，注册后不可变。
type Descriptor struct {
	Framework   string `json:"framework"`    // Adapter 所属框架名称
	Name        string `json:"name"`         // 框架内唯一的技术名称
	DisplayName string `json:"display_name"` // UI 显示名称
	Description string `json:"description"`  // 简短描述
}

// Describe 从一个 Adapter 实例提取它的 Descriptor。
func Describe(a Adapter) Descriptor {
	return Descriptor{
		Framework:   a.Framework(),
		Name:        a.Name(),
		DisplayName: a.DisplayName(),
		Description: a.Description(),
	}
}
