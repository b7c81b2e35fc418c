package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/lookup"
	"bekind-internal/internal/policy"
	"bekind-internal/internal/reconcile"
	"bekind-internal/internal/repository"

	"go.uber.org/zap"
)

// HouseService 房源管理服务（仅管理员）
type HouseService struct {
	houses  repository.HousesRepository
	lookups *LookupService
	loc     *time.Location
	logger  *zap.Logger
}

// NewHouseService 创建房源服务
func NewHouseService(houses repository.HousesRepository, lookups *LookupService, loc *time.Location, logger *zap.Logger) *HouseService {
	if loc == nil {
		loc = time.UTC
	}
	return &HouseService{houses: houses, lookups: lookups, loc: loc, logger: logger}
}

// HouseItem 房源（前端格式）
type HouseItem struct {
	ID               int64  `json:"id"`
	Address          string `json:"address"`
	ManagerID        int64  `json:"manager_id"`
	ManagerName      string `json:"manager_name"`
	CreatedAt        string `json:"created_at,omitempty"`
	CreatedAtDisplay string `json:"created_at_display,omitempty"`
}

func (s *HouseService) toItem(h *domain.HouseWithManager) HouseItem {
	name := h.ManagerName
	if name == "" {
		name = lookup.UnknownManagerName
	}
	item := HouseItem{ID: h.ID, Address: h.Address, ManagerID: h.ManagerID, ManagerName: name}
	if !h.CreatedAt.IsZero() {
		item.CreatedAt = h.CreatedAt.In(s.loc).Format(time.RFC3339)
		item.CreatedAtDisplay = reconcile.DisplayTime(h.CreatedAt, s.loc)
	}
	return item
}

// ListHousesResponse 房源列表响应
type ListHousesResponse struct {
	Items []HouseItem `json:"items"`
	Total int         `json:"total"`
	View  TableView   `json:"view"`
}

// ListHouses 查询全部房源（含经理名）及表格描述
func (s *HouseService) ListHouses(ctx context.Context, actor domain.Account) (*ListHousesResponse, error) {
	if !policy.CanManageHouses(actor.Role) {
		return nil, authorizationError(MsgPermissionDenied)
	}
	houses, err := s.houses.ListHouses(ctx, repository.HousesFilter{})
	if err != nil {
		s.logger.Error("Failed to list houses", zap.Error(err))
		return nil, persistenceError(MsgHouseLoadFailed, err)
	}
	managers, err := s.lookups.Managers(ctx)
	if err != nil {
		return nil, persistenceError(MsgHouseLoadFailed, err)
	}
	items := make([]HouseItem, 0, len(houses))
	for i := range houses {
		items = append(items, s.toItem(&houses[i]))
	}
	return &ListHousesResponse{Items: items, Total: len(items), View: HouseTableView(managers)}, nil
}

// HouseTableView 房源表格描述：隐藏 id、created_at、manager_id，经理下拉
func HouseTableView(managers *lookup.NameMap) TableView {
	return TableView{
		VisibleColumns:  []string{"address", "manager_name"},
		EditableColumns: []string{"address", "manager_name"},
		HiddenColumns:   []string{"id", "created_at", "manager_id"},
		DropdownOptions: map[string][]string{"manager_name": managers.Options()},
		DisplayLabels:   copyLabels(domain.HouseFieldLabels),
	}
}

// CreateHouseRequest 创建房源请求，经理可用 id 或姓名指定
type CreateHouseRequest struct {
	Address     string `json:"address" validate:"required"`
	ManagerID   int64  `json:"manager_id" validate:"required_without=ManagerName"`
	ManagerName string `json:"manager_name" validate:"required_without=ManagerID"`
}

// HouseMutationResponse 房源写操作响应
type HouseMutationResponse struct {
	House    *HouseItem `json:"house,omitempty"`
	NoChange bool       `json:"no_change,omitempty"`
	Message  string     `json:"message"`
}

// resolveManager 经理必须是 Quản lý 账号
func (s *HouseService) resolveManager(ctx context.Context, id int64, name string) (int64, error) {
	managers, err := s.lookups.Managers(ctx)
	if err != nil {
		return 0, persistenceError(MsgHouseLoadFailed, err)
	}
	if name = strings.TrimSpace(name); name != "" {
		resolved, ok := managers.Resolve(name)
		if !ok {
			return 0, validationError(MsgInvalidManager)
		}
		return resolved, nil
	}
	if !managers.Contains(id) {
		return 0, validationError(MsgInvalidManager)
	}
	return id, nil
}

// CreateHouse 创建房源
func (s *HouseService) CreateHouse(ctx context.Context, actor domain.Account, req CreateHouseRequest) (*HouseMutationResponse, error) {
	if !policy.CanManageHouses(actor.Role) {
		return nil, authorizationError(MsgPermissionDenied)
	}
	req.Address = strings.TrimSpace(req.Address)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	managerID, err := s.resolveManager(ctx, req.ManagerID, req.ManagerName)
	if err != nil {
		return nil, err
	}

	created, err := s.houses.CreateHouse(ctx, &domain.House{Address: req.Address, ManagerID: managerID})
	if err != nil {
		s.logger.Error("Failed to create house", zap.Error(err))
		return nil, persistenceError(MsgHouseCreateFailed, err)
	}
	s.logger.Info("House created", zap.Int64("house_id", created.ID), zap.Int64("manager_id", managerID))
	return s.respond(ctx, created.ID, MsgHouseCreated), nil
}

// UpdateHouseRequest 更新房源请求
type UpdateHouseRequest struct {
	Address     *string `json:"address"`
	ManagerID   *int64  `json:"manager_id"`
	ManagerName *string `json:"manager_name"`
}

// UpdateHouse 只提交变化字段；经理变更后重新派生经理名
func (s *HouseService) UpdateHouse(ctx context.Context, actor domain.Account, id int64, req UpdateHouseRequest) (*HouseMutationResponse, error) {
	if !policy.CanManageHouses(actor.Role) {
		return nil, authorizationError(MsgPermissionDenied)
	}
	current, err := s.houses.GetHouse(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(MsgHouseNotFound, err)
		}
		return nil, persistenceError(MsgHouseUpdateFailed, err)
	}

	patch := domain.HousePatch{}
	if req.Address != nil {
		v := strings.TrimSpace(*req.Address)
		if v == "" {
			return nil, validationError(MsgMissingFields)
		}
		if v != current.Address {
			patch.Address = &v
		}
	}
	if req.ManagerID != nil || req.ManagerName != nil {
		var mid int64
		var name string
		if req.ManagerID != nil {
			mid = *req.ManagerID
		}
		if req.ManagerName != nil {
			name = *req.ManagerName
		}
		resolved, err := s.resolveManager(ctx, mid, name)
		if err != nil {
			return nil, err
		}
		if resolved != current.ManagerID {
			patch.ManagerID = &resolved
		}
	}
	if patch.IsEmpty() {
		item := s.toItem(current)
		return &HouseMutationResponse{House: &item, NoChange: true, Message: MsgNoChanges}, nil
	}

	if _, err := s.houses.UpdateHouse(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(MsgHouseNotFound, err)
		}
		s.logger.Error("Failed to update house", zap.Int64("house_id", id), zap.Error(err))
		return nil, persistenceError(MsgHouseUpdateFailed, err)
	}
	s.logger.Info("House updated", zap.Int64("house_id", id), zap.Int64("actor_id", actor.ID))
	return s.respond(ctx, id, MsgHouseUpdated), nil
}

// DeleteHouse 物理删除房源
func (s *HouseService) DeleteHouse(ctx context.Context, actor domain.Account, id int64) (*HouseMutationResponse, error) {
	if !policy.CanManageHouses(actor.Role) {
		return nil, authorizationError(MsgPermissionDenied)
	}
	if err := s.houses.DeleteHouse(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(MsgHouseNotFound, err)
		}
		s.logger.Error("Failed to delete house", zap.Int64("house_id", id), zap.Error(err))
		return nil, persistenceError(MsgHouseDeleteFailed, err)
	}
	s.logger.Info("House deleted", zap.Int64("house_id", id), zap.Int64("actor_id", actor.ID))
	return &HouseMutationResponse{Message: MsgHouseDeleted}, nil
}

func (s *HouseService) respond(ctx context.Context, id int64, msg string) *HouseMutationResponse {
	resp := &HouseMutationResponse{Message: msg}
	if h, err := s.houses.GetHouse(ctx, id); err == nil {
		item := s.toItem(h)
		resp.House = &item
	}
	return resp
}
