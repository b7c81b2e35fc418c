// Package lookup 外键展示映射（id → 名称 / 地址），按请求临时构建，不持久化。
// 反向解析（名称 → id）依赖名称唯一；出现重名时按插入顺序取第一个，并通过 Duplicates 暴露。
package lookup

import "bekind-internal/internal/domain"

// UnknownManagerName 房源经理缺失时的展示值
const UnknownManagerName = "N/A"

// NameMap 有序的 id → 名称映射
type NameMap struct {
	ids    []int64
	labels map[int64]string
}

// NewNameMap 创建空映射
func NewNameMap() *NameMap {
	return &NameMap{labels: map[int64]string{}}
}

// AccountNameMap 由账号列表构建 id → full_name
func AccountNameMap(accounts []domain.Account) *NameMap {
	m := NewNameMap()
	for _, a := range accounts {
		m.Add(a.ID, a.FullName)
	}
	return m
}

// Add 添加映射，重复 id 覆盖名称但保留原顺序
func (m *NameMap) Add(id int64, label string) {
	if _, ok := m.labels[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.labels[id] = label
}

// Label id → 名称
func (m *NameMap) Label(id int64) (string, bool) {
	l, ok := m.labels[id]
	return l, ok
}

// Resolve 名称 → id，重名时第一个命中
func (m *NameMap) Resolve(label string) (int64, bool) {
	for _, id := range m.ids {
		if m.labels[id] == label {
			return id, true
		}
	}
	return 0, false
}

// Contains 是否包含 id
func (m *NameMap) Contains(id int64) bool {
	_, ok := m.labels[id]
	return ok
}

// IDs 按插入顺序的 id
func (m *NameMap) IDs() []int64 {
	out := make([]int64, len(m.ids))
	copy(out, m.ids)
	return out
}

// Options 下拉选项（按插入顺序）
func (m *NameMap) Options() []string {
	out := make([]string, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.labels[id])
	}
	return out
}

// Len 映射条数
func (m *NameMap) Len() int { return len(m.ids) }

// Ambiguous 名称是否对应多个 id
func (m *NameMap) Ambiguous(label string) bool {
	n := 0
	for _, id := range m.ids {
		if m.labels[id] == label {
			n++
		}
	}
	return n > 1
}

// Duplicates 出现多次的名称
func (m *NameMap) Duplicates() []string {
	seen := map[string]int{}
	var dups []string
	for _, id := range m.ids {
		l := m.labels[id]
		seen[l]++
		if seen[l] == 2 {
			dups = append(dups, l)
		}
	}
	return dups
}
