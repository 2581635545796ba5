package llm

import (
	"AgentArena/internal/models"
	"context"
	"errors"
)

// ErrInvalidModel 表示请求指定的模型无效或缺失。
// 各客户端通过 fmt.Errorf("%w: ...") 包装它，调用方用 errors.Is 判定。
var ErrInvalidModel = errors.New("invalid model")

// Request 是一次生成请求，消息按时间顺序排列，最后一条是本次用户输入。
type Request struct {
	Model    string               // 要使用的模型名称，为空时客户端回退到默认模型
	Messages []models.ChatMessage // 对话历史 + 本次输入
}

// LLM 定义了所有大型语言模型客户端必须实现的通用接口。
type LLM interface {
	GenerateContent(ctx context.Context, req *Request) (string, error)
}
