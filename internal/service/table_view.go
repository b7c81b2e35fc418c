package service

import (
	"context"
	"strconv"
	"strings"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/policy"
	"bekind-internal/internal/reconcile"
)

// TableView 表格的声明式描述，前端据此渲染列、禁用与下拉
type TableView struct {
	VisibleColumns  []string            `json:"visible_columns"`
	EditableColumns []string            `json:"editable_columns"`
	HiddenColumns   []string            `json:"hidden_columns"`
	DropdownOptions map[string][]string `json:"dropdown_options"`
	DisplayLabels   map[string]string   `json:"display_labels"`
}

// GuestTable 当前角色的客户表格及其回调
type GuestTable struct {
	View TableView   `json:"view"`
	Rows []GuestItem `json:"rows"`

	svc   *GuestService
	actor domain.Account
}

// OpenTable 构建客户表格：可见行 + 列权限 + 下拉选项
func (s *GuestService) OpenTable(ctx context.Context, actor domain.Account) (*GuestTable, error) {
	list, err := s.ListGuests(ctx, actor)
	if err != nil {
		return nil, err
	}
	view, err := s.GuestTableView(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &GuestTable{View: *view, Rows: list.Items, svc: s, actor: actor}, nil
}

// GuestTableView 客户表格列描述
func (s *GuestService) GuestTableView(ctx context.Context, actor domain.Account) (*TableView, error) {
	lk, err := s.lookups.GuestLookups(ctx, actor)
	if err != nil {
		return nil, persistenceError(MsgGuestLoadFailed, err)
	}
	view := &TableView{
		VisibleColumns:  fieldNames(policy.VisibleFields(actor.Role)),
		EditableColumns: fieldNames(policy.EditableFields(actor.Role)),
		HiddenColumns:   fieldNames(policy.HiddenFields(actor.Role)),
		DropdownOptions: map[string][]string{},
		DisplayLabels:   map[string]string{},
	}
	for _, f := range domain.GuestFields {
		view.DisplayLabels[string(f)] = f.Label()
	}
	if policy.IsEditable(actor.Role, domain.FieldHouseAddress) {
		view.DropdownOptions[string(domain.FieldHouseAddress)] = lk.Houses.Addresses()
	}
	if policy.IsEditable(actor.Role, domain.FieldStatus) {
		view.DropdownOptions[string(domain.FieldStatus)] = statusOptions()
	}
	if policy.IsEditable(actor.Role, domain.FieldMarketerName) {
		view.DropdownOptions[string(domain.FieldMarketerName)] = lk.Marketers.Options()
	}
	return view, nil
}

func (t *GuestTable) row(rowIndex int) (*GuestItem, error) {
	if rowIndex < 0 || rowIndex >= len(t.Rows) {
		return nil, validationError(MsgInvalidRow)
	}
	return &t.Rows[rowIndex], nil
}

// OnEdit 编辑第 rowIndex 行；成功后刷新该行
func (t *GuestTable) OnEdit(ctx context.Context, rowIndex int, newValues map[string]string, viewDate *reconcile.DateTimeInput) (*GuestMutationResponse, error) {
	row, err := t.row(rowIndex)
	if err != nil {
		return nil, err
	}
	resp, err := t.svc.EditGuest(ctx, t.actor, row.ID, EditGuestRequest{Values: newValues, ViewDate: viewDate})
	if err != nil {
		return nil, err
	}
	if resp.Guest != nil {
		t.Rows[rowIndex] = *resp.Guest
	}
	return resp, nil
}

// OnAdd 新增一行，键为展示名或存储列名
func (t *GuestTable) OnAdd(ctx context.Context, newValues map[string]string, viewDate *reconcile.DateTimeInput) (*GuestMutationResponse, error) {
	req := CreateGuestRequest{ViewDate: viewDate}
	for key, value := range newValues {
		field, ok := domain.ParseGuestField(key)
		if !ok {
			continue
		}
		switch field {
		case domain.FieldGuestName:
			req.GuestName = value
		case domain.FieldGuestPhoneNumber:
			req.GuestPhoneNumber = value
		case domain.FieldHouseAddress:
			req.HouseAddress = value
		case domain.FieldMarketerName:
			req.MarketerName = value
		case domain.FieldStatus:
			req.Status = value
		case domain.FieldAdminNote:
			req.AdminNote = value
		case domain.FieldManagerNote:
			req.ManagerNote = value
		case domain.FieldViewDate:
			if viewDate == nil && strings.TrimSpace(value) != "" {
				date, clock, _ := strings.Cut(strings.Replace(value, " ", "T", 1), "T")
				req.ViewDate = &reconcile.DateTimeInput{Date: date, Time: clock}
			}
		}
	}
	resp, err := t.svc.CreateGuest(ctx, t.actor, req)
	if err != nil {
		return nil, err
	}
	if resp.Guest != nil {
		t.Rows = append([]GuestItem{*resp.Guest}, t.Rows...)
	}
	return resp, nil
}

// OnDelete 删除第 rowIndex 行；oldValues 带 id 时必须与该行一致
func (t *GuestTable) OnDelete(ctx context.Context, rowIndex int, oldValues map[string]string) (*DeleteGuestResponse, error) {
	row, err := t.row(rowIndex)
	if err != nil {
		return nil, err
	}
	if raw, ok := oldValues[string(domain.FieldID)]; ok && raw != strconv.FormatInt(row.ID, 10) {
		return nil, validationError(MsgInvalidRow)
	}
	resp, err := t.svc.DeleteGuest(ctx, t.actor, row.ID)
	if err != nil {
		return nil, err
	}
	t.Rows = append(t.Rows[:rowIndex], t.Rows[rowIndex+1:]...)
	return resp, nil
}
