package agent

import (
	"context"
	"errors"
	"fmt"
)

// AdapterErrorKind 标识一次 Invoke 失败的类别。
type AdapterErrorKind string

const (
	// KindTimeout 表示上游模型调用超时。
	KindTimeout AdapterErrorKind = "timeout"
	// KindUpstream 表示上游模型或工具服务返回了错误。
	KindUpstream AdapterErrorKind = "upstream-error"
	// KindInvalidModel 表示请求中指定的模型不被该 Adapter 支持。
	KindInvalidModel AdapterErrorKind = "invalid-model"
)

// AdapterError 是 Adapter.Invoke 失败时返回的统一错误类型。
type AdapterError struct {
	Kind AdapterErrorKind // 失败类别
	Err  error            // 底层错误
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("adapter invocation failed (%s): %v", e.Kind, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// NewAdapterError 创建一个指定类别的 AdapterError。
func NewAdapterError(kind AdapterErrorKind, err error) *AdapterError {
	return &AdapterError{Kind: kind, Err: err}
}

// WrapInvokeError 将一个底层调用错误归类为 AdapterError。
// 已经是 AdapterError 的错误原样返回；上下文超时归类为 timeout；
// 其余一律视为 upstream-error。
func WrapInvokeError(err error) *AdapterError {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewAdapterError(KindTimeout, err)
	}
	return NewAdapterError(KindUpstream, err)
}

// NotFoundError 表示按名称查找的 Agent 不存在。
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("agent '%s' not found", e.Name)
}

// DuplicateAgentError 表示两个 Adapter 报告了相同的 (framework, name) 身份。
// 注册表构建时遇到该错误会快速失败，避免静默覆盖。
type DuplicateAgentError struct {
	Framework string
	Name      string
}

func (e *DuplicateAgentError) Error() string {
	return fmt.Sprintf("duplicate agent identity '%s/%s'", e.Framework, e.Name)
}
