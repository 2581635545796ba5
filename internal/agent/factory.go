package agent

import "sync"

// Factory 是一个 Adapter 的无参构造函数。
// 构造函数返回错误不会中断整个注册表的构建，只会跳过该 Adapter。
type Factory func() (Adapter, error)

var (
	factoryMu sync.Mutex
	factories []Factory
)

// RegisterFactory 注册一个 Adapter 工厂。
// Go 无法像动态语言那样在运行时扫描目录加载模块，
// 因此每个 adapter 包在自己的 init() 中调用本函数完成自注册，
// 再由 adapters 汇总包统一拉起。注册顺序即发现顺序，
// 包初始化顺序在一次构建内是固定的，因此该顺序稳定。
func RegisterFactory(f Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories = append(factories, f)
}

// registeredFactories 返回当前已注册工厂的快照。
func registeredFactories() []Factory {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	out := make([]Factory, len(factories))
	copy(out, factories)
	return out
}
