package agent

import (
	"AgentArena/pkg/logger"
)

// Registry 在内存中存储和管理所有发现的 Adapter 实例。
// 注册表在服务启动前一次性构建，之后只读，查找路径无需加锁。
// identity 是注册表的主键: (framework, name)。
type identity struct {
	framework string
	name      string
}

type Registry struct {
	byIdentity map[identity]Adapter // (framework, name) -> 实例
	order      []Descriptor         // 发现顺序，List 和 Get 均按此遍历
}

// NewRegistry 用给定的工厂列表构建一个注册表。
//
// 构建规则:
//   - 工厂按列表顺序实例化，该顺序即发现顺序。
//   - 某个工厂构造失败只记录日志并跳过，不影响其余 Adapter 的注册；
//     用户贡献的 Adapter 不能拖垮整个平台。
//   - 两个 Adapter 报告相同的 (framework, name) 时立即返回
//     DuplicateAgentError，整个构建失败，避免静默覆盖。
func NewRegistry(fs []Factory, log *logger.Logger) (*Registry, error) {
	r := &Registry{
		byIdentity: make(map[identity]Adapter),
	}

	for i, f := range fs {
		a, err := f()
		if err != nil {
			// 构造失败是非致命的发现错误，跳过继续
			log.WithPayload(map[string]interface{}{
				"factory_index": i,
				"error":         err.Error(),
			}).Warn("Adapter construction failed, skipping")
			continue
		}

		desc := Describe(a)
		key := identity{framework: desc.Framework, name: desc.Name}
		if _, exists := r.byIdentity[key]; exists {
			return nil, &DuplicateAgentError{Framework: desc.Framework, Name: desc.Name}
		}

		r.byIdentity[key] = a
		r.order = append(r.order, desc)
		log.WithPayload(map[string]interface{}{
			"framework": desc.Framework,
			"agent":     desc.Name,
		}).Info("Registered agent")
	}

	log.WithPayload(map[string]interface{}{"count": len(r.order)}).Info("Agent registry built")
	return r, nil
}

// BuildRegistry 用所有通过 RegisterFactory 自注册的工厂构建注册表。
// 应在服务开始监听之前调用一次。
func BuildRegistry(log *logger.Logger) (*Registry, error) {
	return NewRegistry(registeredFactories(), log)
}

// Get 根据技术名称检索一个 Adapter。
// 不同框架下允许同名 Agent 并存，此时返回发现顺序中的第一个。
// 名称未注册时返回 *NotFoundError。
func (r *Registry) Get(name string) (Adapter, error) {
	for _, desc := range r.order {
		if desc.Name == name {
			return r.byIdentity[identity{framework: desc.Framework, name: desc.Name}], nil
		}
	}
	return nil, &NotFoundError{Name: name}
}

// FrameworkGroup 是同一框架下全部 Agent 的描述符列表。
type FrameworkGroup struct {
	Name   string       `json:"name"`
	Agents []Descriptor `json:"agents"`
}

// List 返回所有已注册 Agent 的描述符，按框架分组。
// 框架顺序和组内顺序均为发现顺序，多次调用结果一致。
func (r *Registry) List() []FrameworkGroup {
	var groups []FrameworkGroup
	index := make(map[string]int) // framework -> groups 下标

	for _, desc := range r.order {
		i, ok := index[desc.Framework]
		if !ok {
			i = len(groups)
			index[desc.Framework] = i
			groups = append(groups, FrameworkGroup{Name: desc.Framework})
		}
		groups[i].Agents = append(groups[i].Agents, desc)
	}
	return groups
}

// Count 返回已注册 Agent 的数量。
func (r *Registry) Count() int {
	return len(r.order)
}
