package policy

import "bekind-internal/internal/domain"

// GuestFilter 客户可见范围
//   - All: 管理员，全部可见
//   - MarketerID: 营销人员，只看自己录入的客户
//   - HouseIDs: 经理，只看自己名下房源的客户
//
// 零值不匹配任何客户。
type GuestFilter struct {
	All        bool
	MarketerID int64
	HouseIDs   []int64
}

// VisibleGuestFilter 根据角色计算客户可见范围
// ownedHouseIDs 为经理名下的房源（其他角色忽略）；经理没有房源时结果为空集而不是错误。
func VisibleGuestFilter(role domain.Role, accountID int64, ownedHouseIDs []int64) GuestFilter {
	switch role {
	case domain.RoleAdmin:
		return GuestFilter{All: true}
	case domain.RoleMarketer:
		return GuestFilter{MarketerID: accountID}
	case domain.RoleManager:
		ids := make([]int64, len(ownedHouseIDs))
		copy(ids, ownedHouseIDs)
		return GuestFilter{HouseIDs: ids}
	default:
		return GuestFilter{}
	}
}

// Empty 过滤结果必然为空
func (f GuestFilter) Empty() bool {
	return !f.All && f.MarketerID == 0 && len(f.HouseIDs) == 0
}

// Match 客户是否在可见范围内
func (f GuestFilter) Match(g *domain.Guest) bool {
	if g == nil {
		return false
	}
	if f.All {
		return true
	}
	if f.MarketerID != 0 {
		return g.MarketerID == f.MarketerID
	}
	for _, id := range f.HouseIDs {
		if g.HouseID == id {
			return true
		}
	}
	return false
}
