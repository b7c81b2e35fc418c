package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/policy"
	"bekind-internal/internal/reconcile"
	"bekind-internal/internal/repository"

	"go.uber.org/zap"
)

// GuestService 客户服务：可见范围、创建、对账编辑、删除
type GuestService struct {
	guests  repository.GuestsRepository
	lookups *LookupService
	events  EventPublisher
	loc     *time.Location
	logger  *zap.Logger
}

// NewGuestService 创建客户服务
func NewGuestService(guests repository.GuestsRepository, lookups *LookupService, events EventPublisher, loc *time.Location, logger *zap.Logger) *GuestService {
	if events == nil {
		events = NopPublisher{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &GuestService{guests: guests, lookups: lookups, events: events, loc: loc, logger: logger}
}

// GuestItem 客户行（前端格式），调用者角色不可见的列留空
type GuestItem struct {
	ID               int64  `json:"id"`
	GuestName        string `json:"guest_name"`
	GuestPhoneNumber string `json:"guest_phone_number"`
	HouseID          int64  `json:"house_id"`
	HouseAddress     string `json:"house_address"`
	ManagerID        int64  `json:"manager_id,omitempty"`
	ManagerName      string `json:"manager_name"`
	ViewDate         string `json:"view_date"`
	ViewDateDisplay  string `json:"view_date_display"`
	Status           string `json:"status"`
	MarketerID       int64  `json:"marketer_id"`
	MarketerName     string `json:"marketer_name"`
	CreatedAt        string `json:"created_at,omitempty"`
	CreatedAtDisplay string `json:"created_at_display,omitempty"`
	AdminNote        string `json:"admin_note"`
	ManagerNote      string `json:"manager_note"`
}

func (s *GuestService) toItem(d *domain.GuestDetail, role domain.Role) GuestItem {
	item := GuestItem{
		ID:               d.ID,
		GuestName:        d.GuestName,
		GuestPhoneNumber: d.GuestPhoneNumber,
		HouseID:          d.HouseID,
		HouseAddress:     d.HouseAddress,
		ManagerID:        d.ManagerID,
		ManagerName:      d.ManagerName,
		ViewDate:         reconcile.FormatViewDate(d.ViewDate, s.loc),
		Status:           string(d.Status),
		MarketerID:       d.MarketerID,
		MarketerName:     d.MarketerName,
		AdminNote:        d.AdminNote.String,
		ManagerNote:      d.ManagerNote.String,
	}
	if d.ViewDate.Valid {
		item.ViewDateDisplay = reconcile.DisplayTime(d.ViewDate.Time, s.loc)
	}
	if policy.FieldPermission(role, domain.FieldCreatedAt) != policy.Hidden {
		item.CreatedAt = d.CreatedAt.In(s.loc).Format(time.RFC3339)
		item.CreatedAtDisplay = reconcile.DisplayTime(d.CreatedAt, s.loc)
	}
	return item
}

// visibleFilter 计算调用者的客户可见范围
func (s *GuestService) visibleFilter(ctx context.Context, actor domain.Account) (policy.GuestFilter, error) {
	var owned []int64
	if actor.Role == domain.RoleManager {
		ids, err := s.lookups.OwnedHouseIDs(ctx, actor.ID)
		if err != nil {
			return policy.GuestFilter{}, err
		}
		owned = ids
	}
	return policy.VisibleGuestFilter(actor.Role, actor.ID, owned), nil
}

// ListGuestsResponse 客户列表响应
type ListGuestsResponse struct {
	Items []GuestItem `json:"items"`
	Total int         `json:"total"`
}

// ListGuests 查询调用者可见的客户；经理名下没有房源时返回空列表
func (s *GuestService) ListGuests(ctx context.Context, actor domain.Account) (*ListGuestsResponse, error) {
	details, err := s.listVisible(ctx, actor)
	if err != nil {
		return nil, err
	}
	items := make([]GuestItem, 0, len(details))
	for i := range details {
		items = append(items, s.toItem(&details[i], actor.Role))
	}
	return &ListGuestsResponse{Items: items, Total: len(items)}, nil
}

func (s *GuestService) listVisible(ctx context.Context, actor domain.Account) ([]domain.GuestDetail, error) {
	filter, err := s.visibleFilter(ctx, actor)
	if err != nil {
		s.logger.Error("Failed to resolve guest visibility", zap.Int64("account_id", actor.ID), zap.Error(err))
		return nil, persistenceError(MsgGuestLoadFailed, err)
	}
	if filter.Empty() {
		return []domain.GuestDetail{}, nil
	}
	details, err := s.guests.ListGuests(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list guests", zap.Int64("account_id", actor.ID), zap.Error(err))
		return nil, persistenceError(MsgGuestLoadFailed, err)
	}
	return details, nil
}

// GetGuest 查询单个客户（不可见视为不存在）
func (s *GuestService) GetGuest(ctx context.Context, actor domain.Account, guestID int64) (*GuestItem, error) {
	d, err := s.loadVisible(ctx, actor, guestID)
	if err != nil {
		return nil, err
	}
	item := s.toItem(d, actor.Role)
	return &item, nil
}

func (s *GuestService) loadVisible(ctx context.Context, actor domain.Account, guestID int64) (*domain.GuestDetail, error) {
	d, err := s.guests.GetGuest(ctx, guestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(MsgGuestNotFound, err)
		}
		return nil, persistenceError(MsgGuestLoadFailed, err)
	}
	filter, err := s.visibleFilter(ctx, actor)
	if err != nil {
		return nil, persistenceError(MsgGuestLoadFailed, err)
	}
	if !filter.Match(&d.Guest) {
		return nil, notFoundError(MsgGuestNotFound, nil)
	}
	return d, nil
}

// CreateGuestRequest 创建客户请求
// 房源可用 id 或地址指定；营销人员在 Marketing 角色下固定为调用者
type CreateGuestRequest struct {
	GuestName        string                   `json:"guest_name" validate:"required"`
	GuestPhoneNumber string                   `json:"guest_phone_number" validate:"required"`
	HouseID          int64                    `json:"house_id" validate:"required_without=HouseAddress"`
	HouseAddress     string                   `json:"house_address" validate:"required_without=HouseID"`
	MarketerID       int64                    `json:"marketer_id"`
	MarketerName     string                   `json:"marketer_name"`
	ViewDate         *reconcile.DateTimeInput `json:"view_date"`
	Status           string                   `json:"status"`
	AdminNote        string                   `json:"admin_note"`
	ManagerNote      string                   `json:"manager_note"`
}

// GuestMutationResponse 客户写操作响应
type GuestMutationResponse struct {
	Guest    *GuestItem `json:"guest,omitempty"`
	Changed  []string   `json:"changed,omitempty"`
	NoChange bool       `json:"no_change,omitempty"`
	Message  string     `json:"message"`
}

// CreateGuest 创建客户，默认状态 Mới
func (s *GuestService) CreateGuest(ctx context.Context, actor domain.Account, req CreateGuestRequest) (*GuestMutationResponse, error) {
	if !policy.CanCreateGuest(actor.Role) {
		return nil, authorizationError(MsgPermissionDenied)
	}
	req.GuestName = strings.TrimSpace(req.GuestName)
	req.GuestPhoneNumber = strings.TrimSpace(req.GuestPhoneNumber)
	req.HouseAddress = strings.TrimSpace(req.HouseAddress)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	lk, err := s.lookups.GuestLookups(ctx, actor)
	if err != nil {
		return nil, persistenceError(MsgGuestCreateFailed, err)
	}

	houseID := req.HouseID
	if req.HouseAddress != "" {
		id, ok := lk.Houses.ResolveAddress(req.HouseAddress)
		if !ok {
			return nil, validationError(MsgUnresolvedHouse)
		}
		houseID = id
	} else if _, ok := lk.Houses.Get(houseID); !ok {
		return nil, validationError(MsgUnresolvedHouse)
	}

	marketerID := actor.ID
	if policy.CanChooseMarketer(actor.Role) {
		switch {
		case req.MarketerName != "":
			id, ok := lk.Marketers.Resolve(req.MarketerName)
			if !ok {
				return nil, validationError(MsgUnresolvedMarketer)
			}
			marketerID = id
		case req.MarketerID != 0:
			if !lk.Marketers.Contains(req.MarketerID) {
				return nil, validationError(MsgUnresolvedMarketer)
			}
			marketerID = req.MarketerID
		default:
			return nil, validationError(MsgMissingFields)
		}
	}

	status := domain.GuestStatusNew
	if req.Status != "" {
		status = domain.GuestStatus(req.Status)
		if !status.Valid() {
			return nil, validationError(MsgInvalidStatus)
		}
	}

	guest := &domain.Guest{
		MarketerID:       marketerID,
		HouseID:          houseID,
		GuestName:        req.GuestName,
		GuestPhoneNumber: req.GuestPhoneNumber,
		Status:           status,
	}
	if req.ViewDate != nil {
		combined, err := req.ViewDate.Combine(s.loc)
		if err != nil {
			return nil, validationError(MsgInvalidViewDate)
		}
		viewDate, err := reconcile.ParseViewDate(combined, s.loc)
		if err != nil {
			return nil, validationError(MsgInvalidViewDate)
		}
		guest.ViewDate = viewDate
	}
	if policy.IsEditable(actor.Role, domain.FieldAdminNote) {
		guest.AdminNote = domain.NullableString(req.AdminNote)
	}
	if policy.IsEditable(actor.Role, domain.FieldManagerNote) {
		guest.ManagerNote = domain.NullableString(req.ManagerNote)
	}

	created, err := s.guests.CreateGuest(ctx, guest)
	if err != nil || created == nil {
		s.logger.Error("Failed to create guest",
			zap.Int64("account_id", actor.ID),
			zap.String("role", string(actor.Role)),
			zap.Error(err),
		)
		return nil, persistenceError(MsgGuestCreateFailed, err)
	}

	s.logger.Info("Guest created",
		zap.Int64("guest_id", created.ID),
		zap.Int64("account_id", actor.ID),
		zap.String("role", string(actor.Role)),
	)
	s.publish(ctx, GuestCreated, created.ID, actor, nil)

	resp := &GuestMutationResponse{Message: MsgGuestCreated}
	if d, err := s.guests.GetGuest(ctx, created.ID); err == nil {
		item := s.toItem(d, actor.Role)
		resp.Guest = &item
	}
	return resp, nil
}

// EditGuestRequest 表单编辑提交：键为展示名或存储列名
type EditGuestRequest struct {
	Values   map[string]string        `json:"values"`
	ViewDate *reconcile.DateTimeInput `json:"view_date"`
}

// EditGuest 对账后更新；无变化时返回成功且不写库
func (s *GuestService) EditGuest(ctx context.Context, actor domain.Account, guestID int64, req EditGuestRequest) (*GuestMutationResponse, error) {
	current, err := s.loadVisible(ctx, actor, guestID)
	if err != nil {
		return nil, err
	}
	lk, err := s.lookups.GuestLookups(ctx, actor)
	if err != nil {
		return nil, persistenceError(MsgGuestUpdateFailed, err)
	}

	res, err := reconcile.Reconcile(reconcile.Input{
		Current:   current,
		Role:      actor.Role,
		AccountID: actor.ID,
		Values:    req.Values,
		ViewDate:  req.ViewDate,
	}, lk, s.loc)
	if err != nil {
		return nil, reconcileError(err)
	}

	if len(res.Stripped) > 0 {
		s.logger.Debug("Dropped non-editable fields",
			zap.Int64("guest_id", guestID),
			zap.String("role", string(actor.Role)),
			zap.Strings("fields", fieldNames(res.Stripped)),
		)
	}
	if len(res.Ambiguous) > 0 {
		s.logger.Warn("Edit resolved ambiguous labels, first match used",
			zap.Int64("guest_id", guestID),
			zap.Strings("labels", res.Ambiguous),
		)
	}
	if res.NoChange {
		item := s.toItem(current, actor.Role)
		return &GuestMutationResponse{Guest: &item, NoChange: true, Message: MsgNoChanges}, nil
	}
	return s.applyUpdate(ctx, actor, current, res.Patch)
}

// UpdateGuest 直接提交存储列补丁；Quản lý / Marketing 的 marketer_id 会被剔除
func (s *GuestService) UpdateGuest(ctx context.Context, actor domain.Account, guestID int64, patch domain.GuestPatch) (*GuestMutationResponse, error) {
	if !policy.CanReassignMarketer(actor.Role) {
		patch.MarketerID = nil
	}
	if patch.IsEmpty() {
		return &GuestMutationResponse{NoChange: true, Message: MsgNoChanges}, nil
	}
	current, err := s.loadVisible(ctx, actor, guestID)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, actor, current, patch)
}

func (s *GuestService) applyUpdate(ctx context.Context, actor domain.Account, current *domain.GuestDetail, patch domain.GuestPatch) (*GuestMutationResponse, error) {
	if !policy.CanReassignMarketer(actor.Role) {
		patch.MarketerID = nil
	}
	if patch.IsEmpty() {
		item := s.toItem(current, actor.Role)
		return &GuestMutationResponse{Guest: &item, NoChange: true, Message: MsgNoChanges}, nil
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, validationError(MsgInvalidStatus)
	}
	if patch.HouseID != nil && actor.Role == domain.RoleManager {
		owned, err := s.lookups.OwnedHouseIDs(ctx, actor.ID)
		if err != nil {
			return nil, persistenceError(MsgGuestUpdateFailed, err)
		}
		if !containsID(owned, *patch.HouseID) {
			return nil, validationError(MsgUnresolvedHouse)
		}
	}

	cols := patch.Columns()
	updated, err := s.guests.UpdateGuest(ctx, current.ID, patch)
	if err != nil {
		s.logger.Error("Failed to update guest",
			zap.Int64("guest_id", current.ID),
			zap.Int64("account_id", actor.ID),
			zap.Strings("fields", cols),
			zap.Error(err),
		)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(MsgGuestNotFound, err)
		}
		return nil, persistenceError(MsgGuestUpdateFailed, err)
	}

	s.logger.Info("Guest updated",
		zap.Int64("guest_id", current.ID),
		zap.Int64("account_id", actor.ID),
		zap.String("role", string(actor.Role)),
		zap.Strings("fields", cols),
	)
	s.publish(ctx, GuestUpdated, current.ID, actor, cols)

	resp := &GuestMutationResponse{Changed: cols, Message: MsgGuestUpdated}
	if d, err := s.guests.GetGuest(ctx, updated.ID); err == nil {
		item := s.toItem(d, actor.Role)
		resp.Guest = &item
	}
	return resp, nil
}

// DeleteGuestResponse 删除响应
type DeleteGuestResponse struct {
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

// DeleteGuest 物理删除；Marketing 在访问存储之前即被拒绝
func (s *GuestService) DeleteGuest(ctx context.Context, actor domain.Account, guestID int64) (*DeleteGuestResponse, error) {
	if !policy.CanDeleteGuest(actor.Role) {
		s.logger.Warn("Guest delete rejected",
			zap.Int64("guest_id", guestID),
			zap.Int64("account_id", actor.ID),
			zap.String("role", string(actor.Role)),
		)
		return nil, authorizationError(MsgPermissionDenied)
	}
	if _, err := s.loadVisible(ctx, actor, guestID); err != nil {
		return nil, err
	}
	if err := s.guests.DeleteGuest(ctx, guestID); err != nil {
		s.logger.Error("Failed to delete guest", zap.Int64("guest_id", guestID), zap.Error(err))
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(MsgGuestNotFound, err)
		}
		return nil, persistenceError(MsgGuestDeleteFailed, err)
	}

	s.logger.Info("Guest deleted",
		zap.Int64("guest_id", guestID),
		zap.Int64("account_id", actor.ID),
		zap.String("role", string(actor.Role)),
	)
	s.publish(ctx, GuestDeleted, guestID, actor, nil)
	return &DeleteGuestResponse{Deleted: true, Message: MsgGuestDeleted}, nil
}

func (s *GuestService) publish(ctx context.Context, typ string, guestID int64, actor domain.Account, changed []string) {
	err := s.events.PublishGuestEvent(ctx, GuestEvent{
		Type:      typ,
		GuestID:   guestID,
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Changed:   changed,
		At:        time.Now(),
	})
	if err != nil {
		s.logger.Warn("Failed to publish guest event", zap.String("type", typ), zap.Int64("guest_id", guestID), zap.Error(err))
	}
}

func reconcileError(err error) error {
	var fe *reconcile.FieldError
	if !errors.As(err, &fe) {
		return persistenceError(MsgGuestUpdateFailed, err)
	}
	msg := MsgMissingFields
	switch {
	case errors.Is(err, reconcile.ErrUnresolved) && fe.Field == domain.FieldHouseAddress:
		msg = MsgUnresolvedHouse
	case errors.Is(err, reconcile.ErrUnresolved):
		msg = MsgUnresolvedMarketer
	case fe.Field == domain.FieldStatus:
		msg = MsgInvalidStatus
	case fe.Field == domain.FieldViewDate:
		msg = MsgInvalidViewDate
	}
	return &Error{Kind: KindValidation, Message: msg, Err: err}
}

func fieldNames(fields []domain.GuestField) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, string(f))
	}
	return out
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
