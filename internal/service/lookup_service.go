package service

import (
	"context"
	"fmt"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/lookup"
	"bekind-internal/internal/reconcile"
	"bekind-internal/internal/repository"

	"go.uber.org/zap"
)

// LookupService 按请求构建外键展示映射
type LookupService struct {
	accounts repository.AccountsRepository
	houses   repository.HousesRepository
	logger   *zap.Logger
}

// NewLookupService 创建映射服务
func NewLookupService(accounts repository.AccountsRepository, houses repository.HousesRepository, logger *zap.Logger) *LookupService {
	return &LookupService{accounts: accounts, houses: houses, logger: logger}
}

// AccountsByRole 某角色账号 id → 姓名；role 为空时返回全部账号
func (s *LookupService) AccountsByRole(ctx context.Context, role domain.Role) (*lookup.NameMap, error) {
	filter := repository.AccountsFilter{}
	if role != "" {
		filter.Role = &role
	}
	accounts, err := s.accounts.ListAccounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	m := lookup.AccountNameMap(accounts)
	s.warnDuplicates("account name", m)
	return m, nil
}

// Marketers 营销人员映射
func (s *LookupService) Marketers(ctx context.Context) (*lookup.NameMap, error) {
	return s.AccountsByRole(ctx, domain.RoleMarketer)
}

// Managers 经理映射
func (s *LookupService) Managers(ctx context.Context) (*lookup.NameMap, error) {
	return s.AccountsByRole(ctx, domain.RoleManager)
}

// Houses 房源映射，managerID 非空时只含该经理的房源
func (s *LookupService) Houses(ctx context.Context, managerID *int64) (*lookup.HouseMap, error) {
	houses, err := s.houses.ListHouses(ctx, repository.HousesFilter{ManagerID: managerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	m := lookup.BuildHouseMap(houses)
	s.warnDuplicates("house address", m.AddressMap())
	return m, nil
}

// OwnedHouseIDs 经理名下的房源 id
func (s *LookupService) OwnedHouseIDs(ctx context.Context, managerID int64) ([]int64, error) {
	m, err := s.Houses(ctx, &managerID)
	if err != nil {
		return nil, err
	}
	return m.IDs(), nil
}

// HousesFor 角色可选择的房源：经理只能选自己名下的
func (s *LookupService) HousesFor(ctx context.Context, actor domain.Account) (*lookup.HouseMap, error) {
	if actor.Role == domain.RoleManager {
		return s.Houses(ctx, &actor.ID)
	}
	return s.Houses(ctx, nil)
}

// GuestLookups 客户编辑对账所需映射
func (s *LookupService) GuestLookups(ctx context.Context, actor domain.Account) (reconcile.Lookups, error) {
	houses, err := s.HousesFor(ctx, actor)
	if err != nil {
		return reconcile.Lookups{}, err
	}
	marketers, err := s.Marketers(ctx)
	if err != nil {
		return reconcile.Lookups{}, err
	}
	return reconcile.Lookups{Houses: houses, Marketers: marketers}, nil
}

// HouseOption 房源下拉项
type HouseOption struct {
	ID          int64  `json:"id"`
	Address     string `json:"address"`
	ManagerName string `json:"manager_name"`
}

// GuestFormOptions 客户表单下拉选项
type GuestFormOptions struct {
	Houses    []HouseOption `json:"houses"`
	Marketers []string      `json:"marketers,omitempty"`
	Statuses  []string      `json:"statuses"`
}

// GuestForm 当前角色的客户表单选项
func (s *LookupService) GuestForm(ctx context.Context, actor domain.Account) (*GuestFormOptions, error) {
	lk, err := s.GuestLookups(ctx, actor)
	if err != nil {
		s.logger.Error("Failed to build guest form lookups", zap.Int64("account_id", actor.ID), zap.Error(err))
		return nil, persistenceError(MsgGuestLoadFailed, err)
	}
	out := &GuestFormOptions{
		Houses:   make([]HouseOption, 0, lk.Houses.Len()),
		Statuses: statusOptions(),
	}
	for _, id := range lk.Houses.IDs() {
		info, _ := lk.Houses.Get(id)
		out.Houses = append(out.Houses, HouseOption{ID: id, Address: info.Address, ManagerName: info.ManagerName})
	}
	if actor.Role != domain.RoleMarketer {
		out.Marketers = lk.Marketers.Options()
	}
	return out, nil
}

func (s *LookupService) warnDuplicates(kind string, m *lookup.NameMap) {
	if dups := m.Duplicates(); len(dups) > 0 {
		s.logger.Warn("Ambiguous lookup labels, first match wins",
			zap.String("kind", kind),
			zap.Strings("labels", dups),
		)
	}
}

func statusOptions() []string {
	out := make([]string, 0, len(domain.GuestStatuses))
	for _, st := range domain.GuestStatuses {
		out = append(out, string(st))
	}
	return out
}
