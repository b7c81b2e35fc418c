package lookup

import "bekind-internal/internal/domain"

// HouseInfo 房源展示信息
type HouseInfo struct {
	Address     string
	ManagerID   int64
	ManagerName string
}

// HouseMap 有序的房源 id → {地址, 经理}
type HouseMap struct {
	addresses *NameMap
	houses    map[int64]HouseInfo
}

// NewHouseMap 创建空映射
func NewHouseMap() *HouseMap {
	return &HouseMap{addresses: NewNameMap(), houses: map[int64]HouseInfo{}}
}

// BuildHouseMap 由 join 了经理的房源列表构建
func BuildHouseMap(houses []domain.HouseWithManager) *HouseMap {
	m := NewHouseMap()
	for _, h := range houses {
		name := h.ManagerName
		if name == "" {
			name = UnknownManagerName
		}
		m.Add(h.ID, HouseInfo{Address: h.Address, ManagerID: h.ManagerID, ManagerName: name})
	}
	return m
}

// Add 添加房源
func (m *HouseMap) Add(id int64, info HouseInfo) {
	m.addresses.Add(id, info.Address)
	m.houses[id] = info
}

// Get 按 id 查询
func (m *HouseMap) Get(id int64) (HouseInfo, bool) {
	h, ok := m.houses[id]
	return h, ok
}

// ResolveAddress 地址 → 房源 id，重名时第一个命中
func (m *HouseMap) ResolveAddress(address string) (int64, bool) {
	return m.addresses.Resolve(address)
}

// Addresses 地址下拉选项
func (m *HouseMap) Addresses() []string {
	return m.addresses.Options()
}

// AddressMap id → 地址
func (m *HouseMap) AddressMap() *NameMap {
	return m.addresses
}

// IDs 房源 id
func (m *HouseMap) IDs() []int64 {
	return m.addresses.IDs()
}

// Len 房源数量
func (m *HouseMap) Len() int { return m.addresses.Len() }
